package generate

import (
	"math"
	"slices"
	"strings"

	"github.com/JonMunkholm/synthdata/internal/schema"
)

// Column is one named, typed column of a generated table.
// Exactly one of the backing slices is populated, chosen by Kind:
// int columns hold int64, float columns float64, everything else strings
// (dates as YYYY-MM-DD).
type Column struct {
	Name string
	Kind schema.Kind

	ints   []int64
	floats []float64
	texts  []string
}

// Len returns the number of values in the column.
func (c Column) Len() int {
	switch c.Kind {
	case schema.KindInt:
		return len(c.ints)
	case schema.KindFloat:
		return len(c.floats)
	default:
		return len(c.texts)
	}
}

// Ints returns a copy of an int column's values, or nil for other kinds.
func (c Column) Ints() []int64 { return slices.Clone(c.ints) }

// Floats returns a copy of a float column's values, or nil for other kinds.
func (c Column) Floats() []float64 { return slices.Clone(c.floats) }

// Strings returns a copy of a textual or date column's values, or nil for
// numeric kinds.
func (c Column) Strings() []string { return slices.Clone(c.texts) }

// Value returns the value at row i as int64, float64 or string.
func (c Column) Value(i int) any {
	switch c.Kind {
	case schema.KindInt:
		return c.ints[i]
	case schema.KindFloat:
		return c.floats[i]
	default:
		return c.texts[i]
	}
}

func (c Column) clone() Column {
	c.ints = slices.Clone(c.ints)
	c.floats = slices.Clone(c.floats)
	c.texts = slices.Clone(c.texts)
	return c
}

// Table is a generated dataset: named columns of equal length, in schema
// order. A Table is not modified after it is returned; accessors hand out
// copies.
type Table struct {
	columns []Column
	rows    int
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Column returns the i-th column.
func (t *Table) Column(i int) Column { return t.columns[i].clone() }

// Header returns the column names in order, duplicates and all.
func (t *Table) Header() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Kinds returns the column kinds in order.
func (t *Table) Kinds() []schema.Kind {
	kinds := make([]schema.Kind, len(t.columns))
	for i, c := range t.columns {
		kinds[i] = c.Kind
	}
	return kinds
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Value(i)
	}
	return row
}

// Equal reports whether two tables have the same shape and values.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.columns) != len(o.columns) {
		return false
	}
	for i, c := range t.columns {
		oc := o.columns[i]
		if c.Name != oc.Name || c.Kind != oc.Kind {
			return false
		}
		if !slices.Equal(c.ints, oc.ints) || !slices.Equal(c.floats, oc.floats) || !slices.Equal(c.texts, oc.texts) {
			return false
		}
	}
	return true
}

func (t *Table) clone() *Table {
	out := &Table{rows: t.rows, columns: make([]Column, len(t.columns))}
	for i, c := range t.columns {
		out.columns[i] = c.clone()
	}
	return out
}

// Normalize returns a copy of t with the post-processing pass applied:
// textual columns (string, category) are trimmed and float columns are
// rounded to 2 decimal places. Applying it twice gives the same table.
func Normalize(t *Table) *Table {
	out := t.clone()
	out.normalize()
	return out
}

func (t *Table) normalize() {
	for i := range t.columns {
		c := &t.columns[i]
		switch {
		case c.Kind == schema.KindFloat:
			for j, v := range c.floats {
				c.floats[j] = Round2(v)
			}
		case c.Kind.Textual():
			for j, v := range c.texts {
				c.texts[j] = strings.TrimSpace(v)
			}
		}
	}
}

// wholeFloat is the magnitude from which every float64 is a whole number.
// Scaling such values to cents gains nothing and can overflow.
const wholeFloat = 1 << 53

// Round2 rounds v to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	if math.Abs(v) >= wholeFloat {
		return v
	}
	return math.Round(v*100) / 100
}
