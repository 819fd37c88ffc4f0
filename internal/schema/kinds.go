package schema

import "strings"

// KindInfo describes a column kind for forms and API clients.
type KindInfo struct {
	Kind   Kind     `json:"kind"`
	Label  string   `json:"label"`
	Fields []string `json:"fields"` // Type-specific fields besides the name
	Hint   string   `json:"hint"`
}

var kinds = []KindInfo{
	{Kind: KindInt, Label: "Integer", Fields: []string{"min", "max"}, Hint: "uniform on [min, max)"},
	{Kind: KindFloat, Label: "Float", Fields: []string{"min", "max"}, Hint: "uniform on [min, max], 2 decimals"},
	{Kind: KindString, Label: "String", Fields: []string{"length"}, Hint: "random letters and digits"},
	{Kind: KindDate, Label: "Date", Fields: []string{"min", "max"}, Hint: "YYYY-MM-DD between min and max"},
	{Kind: KindCategory, Label: "Category", Fields: []string{"categories"}, Hint: "comma-separated values"},
}

// kindAliases maps accepted spellings to their canonical kind.
var kindAliases = map[string]Kind{
	"int":         KindInt,
	"integer":     KindInt,
	"float":       KindFloat,
	"double":      KindFloat,
	"str":         KindString,
	"string":      KindString,
	"date":        KindDate,
	"category":    KindCategory,
	"categorical": KindCategory,
	"enum":        KindCategory,
}

// Kinds returns the supported column kinds in display order.
func Kinds() []KindInfo {
	out := make([]KindInfo, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind resolves a type tag, case-insensitively, to a Kind.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// Info returns the descriptor for k.
func (k Kind) Info() (KindInfo, bool) {
	for _, info := range kinds {
		if info.Kind == k {
			return info, true
		}
	}
	return KindInfo{}, false
}

// Textual reports whether values of this kind are strings that the
// post-processing pass trims.
func (k Kind) Textual() bool {
	return k == KindString || k == KindCategory
}
