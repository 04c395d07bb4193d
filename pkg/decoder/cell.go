package decoder

import (
	"strconv"
	"strings"
)

// CellKind discriminates the native value a cell carried in its source
// file. Spreadsheet date cells arrive as numeric serials and stay numeric
// here; the normalizer turns them into calendar dates later so nothing is
// lost to display formatting.
type CellKind int

const (
	CellText CellKind = iota
	CellNumber
)

// Cell is one value of a Matrix.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell wraps a string value.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell wraps a numeric value.
func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n}
}

// String returns the canonical textual form of the cell, the form the
// rest of the pipeline consumes.
func (c Cell) String() string {
	if c.Kind == CellNumber {
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return c.Text
}

// IsEmpty reports whether the cell holds no usable content.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellText && strings.TrimSpace(c.Text) == ""
}

// Row is one ordered row of cells.
type Row []Cell

// Strings returns the row as canonical text values.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

// Matrix is the 2-D cell grid produced by a Decoder. Immutable once built.
type Matrix []Row

// textRow builds a Row of text cells.
func textRow(fields []string) Row {
	row := make(Row, len(fields))
	for i, f := range fields {
		row[i] = TextCell(f)
	}
	return row
}
