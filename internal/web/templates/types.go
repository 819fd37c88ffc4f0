// Package templates renders the generator's HTML pages and fragments as
// templ components. Edit the .templ files and run templ generate.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

import (
	"strconv"

	"github.com/JonMunkholm/synthdata/internal/export"
	"github.com/JonMunkholm/synthdata/internal/schema"
)

// PageParams holds everything the generator page shows.
type PageParams struct {
	Form    FormData
	Preview *PreviewParams // nil when no preview was requested
	Error   *AlertParams   // nil when the last submit succeeded
}

// AlertParams is a user-facing error.
type AlertParams struct {
	Message string
	Action  string
	Code    string
}

// ColumnField is one column block of the form as the user entered it.
type ColumnField struct {
	Name       string
	Type       string
	Min        string
	Max        string
	Length     string
	Categories string
}

// FormData is the state of the generator form.
type FormData struct {
	Rows       string
	Seed       string
	Columns    []ColumnField
	MaxRows    int
	MaxColumns int
}

// PreviewParams is a generated table preview and how to reproduce it.
type PreviewParams struct {
	ID      string
	Seed    uint64
	Preview export.PreviewData
}

func columnPrefix(n int) string { return "col-" + strconv.Itoa(n) + "-" }

// selectedKind is the kind the type select starts on. Unknown input selects
// nothing, so the browser shows the first option.
func selectedKind(input string) schema.Kind {
	k, _ := schema.ParseKind(input)
	return k
}
