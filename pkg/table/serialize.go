package table

import (
	"encoding/csv"
	"strings"
)

// Matrix returns the header followed by the data rows.
func (t *Table) Matrix() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Columns)
	out = append(out, t.Rows...)
	return out
}

// Delimited serializes the extracted table to a canonical delimited
// string so the rest of the pipeline works uniformly regardless of the
// original source format. Cells containing the delimiter, the quote
// character or a newline are quoted.
func (t *Table) Delimited(sep rune) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Comma = sep
	for _, row := range t.Matrix() {
		// csv.Writer only fails on the underlying writer; a Builder never does.
		_ = w.Write(row)
	}
	w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}
