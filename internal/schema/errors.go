package schema

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed column specification or request.
// Position is the 1-based column position within the schema, or 0 when the
// error is not tied to a single column.
type ValidationError struct {
	Position int    // Column position (1-based), 0 if not column-specific
	Name     string // Column name, if known
	Field    string // Offending field: name, min, max, length, categories, rows
	Value    string // The invalid value, if any
	Message  string // Human-readable message
}

func (e ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid schema: ")
	if e.Position > 0 {
		fmt.Fprintf(&b, "column %d", e.Position)
		if e.Name != "" {
			fmt.Fprintf(&b, " (%s)", e.Name)
		}
		b.WriteString(": ")
	} else if e.Name != "" {
		fmt.Fprintf(&b, "column %s: ", e.Name)
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// TypeMismatchError reports a column whose type tag is not one of the
// supported kinds.
type TypeMismatchError struct {
	Position int
	Name     string
	Type     string
}

func (e TypeMismatchError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("unsupported column type %q for column %d (%s)", e.Type, e.Position, e.Name)
	}
	return fmt.Sprintf("unsupported column type %q for column %s", e.Type, e.Name)
}

// atPosition stamps a column position onto validation and type errors.
func atPosition(err error, pos int) error {
	switch e := err.(type) {
	case ValidationError:
		e.Position = pos
		return e
	case TypeMismatchError:
		e.Position = pos
		return e
	default:
		return err
	}
}
