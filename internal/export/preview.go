package export

import "github.com/JonMunkholm/synthdata/internal/generate"

// PreviewData is the first rows of a table formatted for display.
type PreviewData struct {
	Header    []string   `json:"header"`
	Kinds     []string   `json:"kinds"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
	Truncated bool       `json:"truncated"`
}

// Preview formats at most limit rows of t. A non-positive limit shows all rows.
func Preview(t *generate.Table, limit int) PreviewData {
	n := t.NumRows()
	if limit > 0 && limit < n {
		n = limit
	}

	kinds := make([]string, t.NumColumns())
	for i, k := range t.Kinds() {
		kinds[i] = string(k)
	}

	rows := make([][]string, n)
	for i := range rows {
		values := t.Row(i)
		record := make([]string, len(values))
		for j, v := range values {
			record[j] = FormatValue(v)
		}
		rows[i] = record
	}

	return PreviewData{
		Header:    t.Header(),
		Kinds:     kinds,
		Rows:      rows,
		TotalRows: t.NumRows(),
		Truncated: n < t.NumRows(),
	}
}
