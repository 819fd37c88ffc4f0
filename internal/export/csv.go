// Package export serializes generated tables for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/synthdata/internal/generate"
)

const (
	// FileName is the name offered for downloaded tables.
	FileName = "synthetic_data.csv"

	// MIMEType is the content type of downloaded tables.
	MIMEType = "text/csv"
)

// flushInterval is how many rows are buffered before the csv writer flushes.
const flushInterval = 1000

// WriteCSV writes t as UTF-8 CSV: a header row with the column names exactly
// as given, then one record per row.
func WriteCSV(w io.Writer, t *generate.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, t.NumColumns())
	for i := 0; i < t.NumRows(); i++ {
		for j, v := range t.Row(i) {
			record[j] = FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
		if (i+1)%flushInterval == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("flush csv: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// CSV returns t encoded as CSV.
func CSV(t *generate.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatValue renders a table value for CSV: integers in decimal, floats with
// exactly 2 decimals, strings (including dates) as-is.
func FormatValue(v any) string {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
