// Package schema defines the column specifications a synthetic table is
// generated from.
//
// A Schema is an ordered list of ColumnSpec values. ColumnSpec is a closed
// set: the only implementations are IntColumn, FloatColumn, StringColumn,
// DateColumn and CategoryColumn. Code that switches over a ColumnSpec should
// treat any other type as a TypeMismatchError.
package schema

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Kind is the type tag of a column specification.
type Kind string

const (
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindString   Kind = "str"
	KindDate     Kind = "date"
	KindCategory Kind = "category"
)

// DateLayout is the calendar-date format used for date bounds and values.
const DateLayout = "2006-01-02"

// ColumnSpec describes one output column and how its values are sampled.
type ColumnSpec interface {
	ColumnName() string
	Kind() Kind
	Validate() error

	sealed()
}

// IntColumn samples integers uniformly from [Min, Max).
type IntColumn struct {
	Name string
	Min  int64
	Max  int64
}

// FloatColumn samples reals uniformly from [Min, Max], rounded to 2 decimals.
type FloatColumn struct {
	Name string
	Min  float64
	Max  float64
}

// StringColumn samples fixed-length alphanumeric strings.
type StringColumn struct {
	Name   string
	Length int
}

// DateColumn samples calendar dates between Min and Max.
// Bounds are truncated to midnight UTC; their order does not matter.
type DateColumn struct {
	Name string
	Min  time.Time
	Max  time.Time
}

// CategoryColumn samples one of Categories uniformly, with replacement.
type CategoryColumn struct {
	Name       string
	Categories []string
}

func (IntColumn) sealed()      {}
func (FloatColumn) sealed()    {}
func (StringColumn) sealed()   {}
func (DateColumn) sealed()     {}
func (CategoryColumn) sealed() {}

func (c IntColumn) ColumnName() string      { return c.Name }
func (c FloatColumn) ColumnName() string    { return c.Name }
func (c StringColumn) ColumnName() string   { return c.Name }
func (c DateColumn) ColumnName() string     { return c.Name }
func (c CategoryColumn) ColumnName() string { return c.Name }

func (IntColumn) Kind() Kind      { return KindInt }
func (FloatColumn) Kind() Kind    { return KindFloat }
func (StringColumn) Kind() Kind   { return KindString }
func (DateColumn) Kind() Kind     { return KindDate }
func (CategoryColumn) Kind() Kind { return KindCategory }

// NewCategoryColumn builds a CategoryColumn from raw comma-separated input.
func NewCategoryColumn(name, raw string) CategoryColumn {
	return CategoryColumn{Name: name, Categories: ParseCategories(raw)}
}

// NewDateColumn builds a DateColumn from two YYYY-MM-DD strings.
func NewDateColumn(name, min, max string) (DateColumn, error) {
	lo, err := ParseDate(min)
	if err != nil {
		return DateColumn{}, ValidationError{Name: name, Field: "min", Value: min, Message: "invalid date (use YYYY-MM-DD)"}
	}
	hi, err := ParseDate(max)
	if err != nil {
		return DateColumn{}, ValidationError{Name: name, Field: "max", Value: max, Message: "invalid date (use YYYY-MM-DD)"}
	}
	return DateColumn{Name: name, Min: lo, Max: hi}, nil
}

// ParseCategories splits raw on commas and trims each entry.
// Entries that are empty after trimming are dropped, so "a,,b" yields [a b]
// and whitespace-only input yields no categories at all.
func ParseCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// TruncateDate drops the time-of-day component, keeping the calendar date
// the value has in its own location.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks the integer range.
func (c IntColumn) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	if c.Min >= c.Max {
		return ValidationError{
			Name:    c.Name,
			Field:   "max",
			Value:   fmt.Sprint(c.Max),
			Message: fmt.Sprintf("max must be greater than min (%d); the range is [min, max)", c.Min),
		}
	}
	return nil
}

// Validate checks the float range. Min == Max is allowed and yields a
// constant column. The range must contain at least one value with 2 decimals.
func (c FloatColumn) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	bounds := []struct {
		field string
		v     float64
	}{{"min", c.Min}, {"max", c.Max}}
	for _, b := range bounds {
		if math.IsNaN(b.v) || math.IsInf(b.v, 0) {
			return ValidationError{Name: c.Name, Field: b.field, Value: fmt.Sprint(b.v), Message: "must be a finite number"}
		}
	}
	if c.Min > c.Max {
		return ValidationError{
			Name:    c.Name,
			Field:   "max",
			Value:   fmt.Sprint(c.Max),
			Message: fmt.Sprintf("max must not be less than min (%g)", c.Min),
		}
	}
	if lo, hi := c.CentRange(); lo > hi {
		return ValidationError{
			Name:    c.Name,
			Field:   "max",
			Value:   fmt.Sprint(c.Max),
			Message: "range contains no value with 2 decimal places",
		}
	}
	return nil
}

// centTolerance absorbs binary rounding when scaling a bound to cents, so a
// bound written with 2 decimals maps to its own cent.
const centTolerance = 1e-9

// CentRange returns the smallest and largest whole number of cents inside
// [Min, Max]. The range holds a 2-decimal value only when lo <= hi. A bound
// too large to scale gives an infinite result of the same sign.
func (c FloatColumn) CentRange() (lo, hi float64) {
	return math.Ceil(c.Min*100 - centTolerance), math.Floor(c.Max*100 + centTolerance)
}

// MaxStringLength is the longest string column the engine accepts.
// Services usually enforce a much lower limit.
const MaxStringLength = 1 << 20

// Validate checks the string length.
func (c StringColumn) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	if c.Length < 1 {
		return ValidationError{Name: c.Name, Field: "length", Value: fmt.Sprint(c.Length), Message: "string length must be at least 1"}
	}
	if c.Length > MaxStringLength {
		return ValidationError{
			Name:    c.Name,
			Field:   "length",
			Value:   fmt.Sprint(c.Length),
			Message: fmt.Sprintf("string length must be at most %d", MaxStringLength),
		}
	}
	return nil
}

// Validate checks that both bounds are set.
func (c DateColumn) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	if c.Min.IsZero() {
		return ValidationError{Name: c.Name, Field: "min", Message: "invalid date (use YYYY-MM-DD)"}
	}
	if c.Max.IsZero() {
		return ValidationError{Name: c.Name, Field: "max", Message: "invalid date (use YYYY-MM-DD)"}
	}
	return nil
}

// Validate checks that at least one non-blank category exists.
func (c CategoryColumn) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	if len(c.Categories) == 0 {
		return ValidationError{Name: c.Name, Field: "categories", Message: "category list is empty"}
	}
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat) == "" {
			return ValidationError{Name: c.Name, Field: "categories", Value: cat, Message: "category list contains a blank entry"}
		}
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "name", Message: "column name is required"}
	}
	return nil
}
