package schema

// document.go decodes schema documents: the JSON bodies the API accepts and
// the YAML/JSON files the CLI reads.
//
// Bounds are kept as literal text until the column type is known, so the same
// "min"/"max" fields carry integers, floats or YYYY-MM-DD dates. Numeric bounds
// and string length fall back to the form defaults (0, 100 and 10) when
// omitted; date bounds are required.

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Form defaults for omitted fields.
const (
	DefaultMin    = 0
	DefaultMax    = 100
	DefaultLength = 10
)

// Request is a decoded generation request.
type Request struct {
	Rows   int
	Seed   *uint64 // nil means seed randomly
	Schema Schema
}

// Document is the wire form of a generation request.
type Document struct {
	Rows    int              `json:"rows" yaml:"rows"`
	Seed    *uint64          `json:"seed,omitempty" yaml:"seed,omitempty"`
	Columns []ColumnDocument `json:"columns" yaml:"columns"`
}

// ColumnDocument is the wire form of one column.
type ColumnDocument struct {
	Name       string     `json:"name" yaml:"name"`
	Type       string     `json:"type" yaml:"type"`
	Min        Bound      `json:"min,omitempty" yaml:"min,omitempty"`
	Max        Bound      `json:"max,omitempty" yaml:"max,omitempty"`
	Length     *int       `json:"length,omitempty" yaml:"length,omitempty"`
	Categories Categories `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Bound holds a range bound as literal text.
type Bound struct {
	raw string
	set bool
}

// NewBound wraps a literal such as "18", "0.5" or "2024-01-31".
// Blank input yields an unset bound.
func NewBound(s string) Bound {
	s = strings.TrimSpace(s)
	return Bound{raw: s, set: s != ""}
}

// IsSet reports whether the bound was given.
func (b Bound) IsSet() bool { return b.set }

// String returns the literal text.
func (b Bound) String() string { return b.raw }

// UnmarshalJSON accepts numbers, strings and null.
func (b *Bound) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = Bound{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = NewBound(s)
		return nil
	}
	*b = NewBound(string(data))
	return nil
}

// UnmarshalYAML accepts any scalar.
func (b *Bound) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: bound must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*b = Bound{}
		return nil
	}
	*b = NewBound(node.Value)
	return nil
}

// Categories is a parsed category list. It decodes from either a
// comma-separated string or a list of strings.
type Categories []string

// UnmarshalJSON accepts "a, b, c" or ["a", "b", "c"].
func (c *Categories) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*c = ParseCategories(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("categories must be a string or a list of strings: %w", err)
	}
	*c = trimList(list)
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence.
func (c *Categories) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = ParseCategories(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*c = trimList(list)
		return nil
	default:
		return fmt.Errorf("line %d: categories must be a string or a list of strings", node.Line)
	}
}

func trimList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Spec converts the column document into a typed ColumnSpec.
// The column is built but not validated; call Validate on the result.
func (d ColumnDocument) Spec() (ColumnSpec, error) {
	kind, ok := ParseKind(d.Type)
	if !ok {
		return nil, TypeMismatchError{Name: d.Name, Type: d.Type}
	}

	switch kind {
	case KindInt:
		lo, err := intBound(d.Name, "min", d.Min, DefaultMin)
		if err != nil {
			return nil, err
		}
		hi, err := intBound(d.Name, "max", d.Max, DefaultMax)
		if err != nil {
			return nil, err
		}
		return IntColumn{Name: d.Name, Min: lo, Max: hi}, nil

	case KindFloat:
		lo, err := floatBound(d.Name, "min", d.Min, DefaultMin)
		if err != nil {
			return nil, err
		}
		hi, err := floatBound(d.Name, "max", d.Max, DefaultMax)
		if err != nil {
			return nil, err
		}
		return FloatColumn{Name: d.Name, Min: lo, Max: hi}, nil

	case KindString:
		length := DefaultLength
		if d.Length != nil {
			length = *d.Length
		}
		return StringColumn{Name: d.Name, Length: length}, nil

	case KindDate:
		if !d.Min.IsSet() {
			return nil, ValidationError{Name: d.Name, Field: "min", Message: "date range requires min"}
		}
		if !d.Max.IsSet() {
			return nil, ValidationError{Name: d.Name, Field: "max", Message: "date range requires max"}
		}
		return NewDateColumn(d.Name, d.Min.String(), d.Max.String())

	case KindCategory:
		return CategoryColumn{Name: d.Name, Categories: []string(d.Categories)}, nil
	}

	return nil, TypeMismatchError{Name: d.Name, Type: d.Type}
}

func intBound(name, field string, b Bound, def int64) (int64, error) {
	if !b.IsSet() {
		return def, nil
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, ValidationError{Name: name, Field: field, Value: b.String(), Message: "invalid integer"}
	}
	return v, nil
}

func floatBound(name, field string, b Bound, def float64) (float64, error) {
	if !b.IsSet() {
		return def, nil
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, ValidationError{Name: name, Field: field, Value: b.String(), Message: "invalid number"}
	}
	return v, nil
}

// Request converts the document into a validated Request.
// Row count is not checked here; the engine owns that rule.
func (d Document) Request() (Request, error) {
	s := make(Schema, 0, len(d.Columns))
	for i, col := range d.Columns {
		spec, err := col.Spec()
		if err != nil {
			return Request{}, atPosition(err, i+1)
		}
		s = append(s, spec)
	}
	if err := s.Validate(); err != nil {
		return Request{}, err
	}
	return Request{Rows: d.Rows, Seed: d.Seed, Schema: s}, nil
}

// Format is a schema document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from a file extension.
// Anything other than .json is read as YAML, which also accepts JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// DecodeJSON reads a JSON schema document. Unknown fields are rejected.
func DecodeJSON(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode schema document: %w", err)
	}
	return doc, nil
}

// DecodeYAML reads a YAML schema document. Unknown fields are rejected.
func DecodeYAML(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return Document{}, fmt.Errorf("decode schema document: empty document")
		}
		return Document{}, fmt.Errorf("decode schema document: %w", err)
	}
	return doc, nil
}

// Decode reads a document in the given format.
func Decode(r io.Reader, format Format) (Document, error) {
	if format == FormatJSON {
		return DecodeJSON(r)
	}
	return DecodeYAML(r)
}
