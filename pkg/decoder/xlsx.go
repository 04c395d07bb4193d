package decoder

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

type xlsxDecoder struct{}

func (xlsxDecoder) Decode(data []byte) (Matrix, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening xlsx workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	// Raw cell values keep date serials and unformatted numbers intact,
	// so the locale normalizer sees what the file stores rather than what
	// a spreadsheet UI would display.
	rows, err := workbook.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	matrix := make(Matrix, 0, len(rows))
	for _, row := range rows {
		cells := make(Row, len(row))
		for i, raw := range row {
			cells[i] = typedCell(raw)
		}
		matrix = append(matrix, cells)
	}
	return matrix, nil
}

// typedCell recovers the numeric kind for raw values that round-trip
// exactly; everything else stays text (including zero-padded strings).
func typedCell(raw string) Cell {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || strconv.FormatFloat(n, 'f', -1, 64) != raw {
		return TextCell(raw)
	}
	return NumberCell(n)
}
