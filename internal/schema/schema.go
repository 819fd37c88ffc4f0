package schema

import (
	"fmt"
	"strings"
)

// Schema is the ordered list of columns a table is generated from.
type Schema []ColumnSpec

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.ColumnName()
	}
	return names
}

// Kinds returns the column kinds in schema order.
func (s Schema) Kinds() []Kind {
	kinds := make([]Kind, len(s))
	for i, c := range s {
		kinds[i] = c.Kind()
	}
	return kinds
}

// Validate checks every column in order and returns the first failure.
// Column names must be unique (compared case-sensitively after trimming).
func (s Schema) Validate() error {
	if len(s) == 0 {
		return ValidationError{Field: "columns", Message: "schema has no columns"}
	}

	seen := make(map[string]int, len(s))
	for i, col := range s {
		pos := i + 1
		if col == nil {
			return ValidationError{Position: pos, Field: "type", Message: "column specification is missing"}
		}
		if !IsKnown(col) {
			return TypeMismatchError{Position: pos, Name: col.ColumnName(), Type: fmt.Sprintf("%T", col)}
		}
		if err := col.Validate(); err != nil {
			return atPosition(err, pos)
		}

		name := strings.TrimSpace(col.ColumnName())
		if first, dup := seen[name]; dup {
			return ValidationError{
				Position: pos,
				Name:     col.ColumnName(),
				Field:    "name",
				Value:    col.ColumnName(),
				Message:  fmt.Sprintf("duplicate column name (also used by column %d)", first),
			}
		}
		seen[name] = pos
	}
	return nil
}

// IsKnown reports whether c is one of the supported column variants.
func IsKnown(c ColumnSpec) bool {
	switch c.(type) {
	case IntColumn, FloatColumn, StringColumn, DateColumn, CategoryColumn:
		return true
	default:
		return false
	}
}
