package schema

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"trims whitespace", " Open , Closed ,Pending", []string{"Open", "Closed", "Pending"}},
		{"single value", "only", []string{"only"}},
		{"drops empty entries", "a,,b, ,c", []string{"a", "b", "c"}},
		{"empty input", "", []string{}},
		{"whitespace only", "   ,  ", []string{}},
		{"keeps inner spaces", "New York, Los Angeles", []string{"New York", "Los Angeles"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCategories(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseCategories(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ParseCategories(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestColumnValidate(t *testing.T) {
	day := func(s string) time.Time {
		d, err := ParseDate(s)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", s, err)
		}
		return d
	}

	tests := []struct {
		name      string
		col       ColumnSpec
		wantField string // empty means valid
	}{
		{"int valid", IntColumn{Name: "age", Min: 18, Max: 65}, ""},
		{"int negative range", IntColumn{Name: "delta", Min: -10, Max: -1}, ""},
		{"int empty range", IntColumn{Name: "age", Min: 5, Max: 5}, "max"},
		{"int inverted", IntColumn{Name: "age", Min: 65, Max: 18}, "max"},
		{"int missing name", IntColumn{Min: 0, Max: 1}, "name"},
		{"float valid", FloatColumn{Name: "score", Min: 0, Max: 1}, ""},
		{"float constant", FloatColumn{Name: "score", Min: 0.5, Max: 0.5}, ""},
		{"float inverted", FloatColumn{Name: "score", Min: 2, Max: 1}, "max"},
		{"float NaN", FloatColumn{Name: "score", Min: math.NaN(), Max: 1}, "min"},
		{"float Inf", FloatColumn{Name: "score", Min: 0, Max: math.Inf(1)}, "max"},
		{"float no cent inside range", FloatColumn{Name: "score", Min: 0.001, Max: 0.004}, "max"},
		{"float huge bounds", FloatColumn{Name: "score", Min: 1e307, Max: 1.5e307}, ""},
		{"float full range", FloatColumn{Name: "score", Min: -math.MaxFloat64, Max: math.MaxFloat64}, ""},
		{"float constant huge", FloatColumn{Name: "score", Min: -1e300, Max: -1e300}, ""},
		{"string valid", StringColumn{Name: "code", Length: 1}, ""},
		{"string zero length", StringColumn{Name: "code", Length: 0}, "length"},
		{"string negative length", StringColumn{Name: "code", Length: -3}, "length"},
		{"string at engine cap", StringColumn{Name: "code", Length: MaxStringLength}, ""},
		{"string above engine cap", StringColumn{Name: "code", Length: MaxStringLength + 1}, "length"},
		{"string huge length", StringColumn{Name: "code", Length: 1 << 62}, "length"},
		{"date valid", DateColumn{Name: "d", Min: day("2020-01-01"), Max: day("2020-12-31")}, ""},
		{"date reversed is valid", DateColumn{Name: "d", Min: day("2021-01-01"), Max: day("2020-01-01")}, ""},
		{"date missing min", DateColumn{Name: "d", Max: day("2020-12-31")}, "min"},
		{"category valid", NewCategoryColumn("status", "a,b"), ""},
		{"category empty", NewCategoryColumn("status", " , "), "categories"},
		{"category blank entry", CategoryColumn{Name: "status", Categories: []string{"a", "  "}}, "categories"},
		{"blank name", StringColumn{Name: "   ", Length: 3}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.col.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestSchemaValidate(t *testing.T) {
	t.Run("valid schema", func(t *testing.T) {
		s := Schema{
			IntColumn{Name: "age", Min: 18, Max: 65},
			NewCategoryColumn("status", "Open,Closed"),
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
	})

	t.Run("empty schema", func(t *testing.T) {
		err := Schema{}.Validate()
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Validate() error = %v, want ValidationError", err)
		}
	})

	t.Run("first invalid column is reported with its position", func(t *testing.T) {
		s := Schema{
			IntColumn{Name: "ok", Min: 0, Max: 10},
			StringColumn{Name: "bad", Length: 0},
			IntColumn{Name: "worse", Min: 10, Max: 0},
		}
		err := s.Validate()
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Validate() error = %v, want ValidationError", err)
		}
		if ve.Position != 2 || ve.Name != "bad" {
			t.Errorf("got position %d name %q, want 2 %q", ve.Position, ve.Name, "bad")
		}
		if !strings.Contains(err.Error(), "column 2 (bad)") {
			t.Errorf("Error() = %q, want it to mention column 2 (bad)", err.Error())
		}
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		s := Schema{
			IntColumn{Name: "id", Min: 0, Max: 10},
			StringColumn{Name: "id", Length: 4},
		}
		err := s.Validate()
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Validate() error = %v, want ValidationError", err)
		}
		if ve.Position != 2 || ve.Field != "name" {
			t.Errorf("got position %d field %q, want 2 name", ve.Position, ve.Field)
		}
	})

	t.Run("nil column", func(t *testing.T) {
		err := Schema{nil}.Validate()
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Validate() error = %v, want ValidationError", err)
		}
	})

	t.Run("unknown variant is a type mismatch", func(t *testing.T) {
		type customColumn struct{ IntColumn }
		err := Schema{customColumn{IntColumn{Name: "x", Min: 0, Max: 1}}}.Validate()
		var tm TypeMismatchError
		if !errors.As(err, &tm) {
			t.Fatalf("Validate() error = %v, want TypeMismatchError", err)
		}
		if tm.Position != 1 {
			t.Errorf("TypeMismatchError.Position = %d, want 1", tm.Position)
		}
	})
}

func TestSchemaNamesAndKinds(t *testing.T) {
	s := Schema{
		IntColumn{Name: "a", Min: 0, Max: 1},
		FloatColumn{Name: "b", Min: 0, Max: 1},
		StringColumn{Name: "c", Length: 1},
		DateColumn{Name: "d"},
		CategoryColumn{Name: "e"},
	}
	names := s.Names()
	kinds := s.Kinds()
	wantNames := []string{"a", "b", "c", "d", "e"}
	wantKinds := []Kind{KindInt, KindFloat, KindString, KindDate, KindCategory}
	for i := range wantNames {
		if names[i] != wantNames[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], wantNames[i])
		}
		if kinds[i] != wantKinds[i] {
			t.Errorf("Kinds()[%d] = %q, want %q", i, kinds[i], wantKinds[i])
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in     string
		want   Kind
		wantOK bool
	}{
		{"int", KindInt, true},
		{"Integer", KindInt, true},
		{"float", KindFloat, true},
		{"str", KindString, true},
		{"string", KindString, true},
		{" DATE ", KindDate, true},
		{"category", KindCategory, true},
		{"bool", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseKind(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestKindsCatalog(t *testing.T) {
	got := Kinds()
	if len(got) != 5 {
		t.Fatalf("Kinds() returned %d entries, want 5", len(got))
	}
	got[0].Label = "mutated"
	if Kinds()[0].Label == "mutated" {
		t.Error("Kinds() must return a copy")
	}
	for _, info := range got {
		if _, ok := info.Kind.Info(); !ok {
			t.Errorf("Info() missing for %q", info.Kind)
		}
	}
}

func TestNewDateColumn(t *testing.T) {
	col, err := NewDateColumn("joined", "2020-01-01", " 2020-03-01 ")
	if err != nil {
		t.Fatalf("NewDateColumn() error = %v", err)
	}
	if col.Min.Format(DateLayout) != "2020-01-01" || col.Max.Format(DateLayout) != "2020-03-01" {
		t.Errorf("got %v..%v", col.Min, col.Max)
	}

	_, err = NewDateColumn("joined", "01/02/2020", "2020-03-01")
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Field != "min" {
		t.Errorf("NewDateColumn() error = %v, want ValidationError on min", err)
	}
}
