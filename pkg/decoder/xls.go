package decoder

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

const maxSheetRows = 10000

// xlsDecoder handles the two things banks ship as ".xls": genuine BIFF
// workbooks and HTML tables wearing the wrong extension.
type xlsDecoder struct{}

func (xlsDecoder) Decode(data []byte) (Matrix, error) {
	if looksLikeHTML(data) {
		return decodeHTMLTable(data)
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error opening xls workbook: %w", err)
	}

	rows := workbook.ReadAllCells(maxSheetRows)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	matrix := make(Matrix, 0, len(rows))
	for _, row := range rows {
		matrix = append(matrix, textRow(row))
	}
	return matrix, nil
}

// looksLikeHTML sniffs the first bytes for HTML markers.
func looksLikeHTML(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	return bytes.Contains(lower, []byte("<html")) ||
		bytes.Contains(lower, []byte("<!doctype")) ||
		bytes.Contains(lower, []byte("<table"))
}
