package web

import (
	"errors"
	"testing"

	"github.com/JonMunkholm/synthdata/internal/schema"
	"github.com/JonMunkholm/synthdata/internal/web/templates"
)

func TestFormDocument(t *testing.T) {
	form := templates.FormData{
		Rows: "15",
		Seed: "99",
		Columns: []templates.ColumnField{
			{Name: "n", Type: "int", Min: "1", Max: "5", Length: "ignored"},
			{Name: "s", Type: "str", Length: " 4 ", Min: "ignored"},
			{Name: "c", Type: "category", Categories: "x, y,,z"},
		},
	}

	doc, err := formDocument(form)
	if err != nil {
		t.Fatalf("formDocument() error = %v", err)
	}
	if doc.Rows != 15 || doc.Seed == nil || *doc.Seed != 99 {
		t.Errorf("rows = %d, seed = %v", doc.Rows, doc.Seed)
	}
	if doc.Columns[0].Min.String() != "1" || doc.Columns[0].Length != nil {
		t.Errorf("int column = %+v", doc.Columns[0])
	}
	if doc.Columns[1].Length == nil || *doc.Columns[1].Length != 4 || doc.Columns[1].Min.IsSet() {
		t.Errorf("str column = %+v", doc.Columns[1])
	}
	if len(doc.Columns[2].Categories) != 3 {
		t.Errorf("categories = %q", doc.Columns[2].Categories)
	}

	req, err := doc.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if len(req.Schema) != 3 {
		t.Errorf("schema has %d columns", len(req.Schema))
	}
}

func TestFormDocument_Errors(t *testing.T) {
	tests := []struct {
		name      string
		form      templates.FormData
		wantField string
		wantPos   int
	}{
		{"blank rows", templates.FormData{Rows: ""}, "rows", 0},
		{"fractional rows", templates.FormData{Rows: "2.5"}, "rows", 0},
		{"negative seed", templates.FormData{Rows: "1", Seed: "-4"}, "seed", 0},
		{"bad length", templates.FormData{Rows: "1", Columns: []templates.ColumnField{
			{Name: "a", Type: "int"},
			{Name: "b", Type: "str", Length: "long"},
		}}, "length", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := formDocument(tt.form)
			var ve schema.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField || ve.Position != tt.wantPos {
				t.Errorf("Field = %q, Position = %d, want %q, %d", ve.Field, ve.Position, tt.wantField, tt.wantPos)
			}
		})
	}
}
