package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/synthdata/internal/schema"
	"github.com/JonMunkholm/synthdata/internal/web/templates"
)

// maxFormBytes bounds a submitted form; 18 columns of text fit easily.
const maxFormBytes = 1 << 20

// blankForm returns a form with n empty columns, each defaulting to int.
func (s *Server) blankForm(n int) templates.FormData {
	cols := make([]templates.ColumnField, n)
	for i := range cols {
		cols[i] = templates.ColumnField{
			Type:   string(schema.KindInt),
			Min:    strconv.Itoa(schema.DefaultMin),
			Max:    strconv.Itoa(schema.DefaultMax),
			Length: strconv.Itoa(schema.DefaultLength),
		}
	}
	return templates.FormData{
		Rows:       strconv.Itoa(s.cfg.Generation.DefaultRows),
		Columns:    cols,
		MaxRows:    s.cfg.Generation.MaxRows,
		MaxColumns: s.cfg.Generation.MaxColumns,
	}
}

// columnCount reads the cols parameter, clamped to 1..MaxColumns.
func (s *Server) columnCount(r *http.Request) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue("cols")))
	if err != nil || n < 1 {
		return s.cfg.Generation.DefaultColumns
	}
	return min(n, s.cfg.Generation.MaxColumns)
}

// readForm collects the submitted form as entered, so it can be shown
// again after an error.
func (s *Server) readForm(r *http.Request) templates.FormData {
	f := s.blankForm(s.columnCount(r))
	f.Rows = strings.TrimSpace(r.PostFormValue("rows"))
	f.Seed = strings.TrimSpace(r.PostFormValue("seed"))
	for i := range f.Columns {
		prefix := "col-" + strconv.Itoa(i+1) + "-"
		f.Columns[i] = templates.ColumnField{
			Name:       r.PostFormValue(prefix + "name"),
			Type:       r.PostFormValue(prefix + "type"),
			Min:        r.PostFormValue(prefix + "min"),
			Max:        r.PostFormValue(prefix + "max"),
			Length:     r.PostFormValue(prefix + "length"),
			Categories: r.PostFormValue(prefix + "categories"),
		}
	}
	return f
}

// formDocument converts form input into a schema document. Fields that do
// not apply to a column's type are ignored.
func formDocument(f templates.FormData) (schema.Document, error) {
	doc := schema.Document{Columns: make([]schema.ColumnDocument, len(f.Columns))}

	rows, err := strconv.Atoi(f.Rows)
	if err != nil {
		return doc, schema.ValidationError{Field: "rows", Value: f.Rows, Message: "number of rows must be a whole number"}
	}
	doc.Rows = rows

	if f.Seed != "" {
		seed, err := strconv.ParseUint(f.Seed, 10, 64)
		if err != nil {
			return doc, schema.ValidationError{Field: "seed", Value: f.Seed, Message: "seed must be a non-negative whole number"}
		}
		doc.Seed = &seed
	}

	for i, col := range f.Columns {
		cd := schema.ColumnDocument{Name: col.Name, Type: col.Type}
		kind, _ := schema.ParseKind(col.Type)
		switch kind {
		case schema.KindInt, schema.KindFloat, schema.KindDate:
			cd.Min = schema.NewBound(col.Min)
			cd.Max = schema.NewBound(col.Max)
		case schema.KindString:
			if v := strings.TrimSpace(col.Length); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil {
					return doc, schema.ValidationError{
						Position: i + 1, Name: col.Name, Field: "length", Value: v,
						Message: "string length must be a whole number",
					}
				}
				cd.Length = &n
			}
		case schema.KindCategory:
			cd.Categories = schema.ParseCategories(col.Categories)
		}
		doc.Columns[i] = cd
	}
	return doc, nil
}
