// Package table locates the real transaction table inside a noisy
// statement matrix: letterhead, account metadata, repeated page headers,
// blank separators and footer summaries are all discarded.
package table

import (
	"errors"
	"strings"

	"github.com/budgetbr/extratu/pkg/decoder"
	"github.com/budgetbr/extratu/pkg/normalize"
)

var (
	ErrEmptyMatrix    = errors.New("matrix has no rows")
	ErrHeaderNotFound = errors.New("no transaction header row found")
	ErrNoDataRows     = errors.New("no usable data rows below the header")
)

// headerVocabulary holds the folded header tokens seen across Brazilian
// bank exports. A row qualifies as the header when at least two of its
// cells match.
var headerVocabulary = []string{
	"data",
	"descricao",
	"historico",
	"valor",
	"entrada",
	"saida",
	"credito",
	"debito",
	"saldo",
	"categoria",
	"lancamento",
}

// footerPrefixes mark summary rows that end the transaction block.
var footerPrefixes = []string{
	"total",
	"saldo final",
	"saldo anterior",
	"resumo",
}

// Table is the extracted transaction block.
type Table struct {
	HeaderIndex int
	Columns     []string
	Rows        [][]string
}

// Extract scans the matrix top to bottom for the header row and collects
// the contiguous data block under it.
func Extract(m decoder.Matrix) (*Table, error) {
	if len(m) == 0 {
		return nil, ErrEmptyMatrix
	}

	headerIdx := -1
	for i, row := range m {
		if IsHeaderRow(row.Strings()) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, ErrHeaderNotFound
	}

	table := &Table{
		HeaderIndex: headerIdx,
		Columns:     trimmed(m[headerIdx].Strings()),
	}

	for i := headerIdx + 1; i < len(m); i++ {
		cells := m[i].Strings()
		switch {
		case isBlankRow(cells):
			// An isolated blank inside the block is a page artifact; a
			// blank followed only by trailer content ends the block.
			if !hasDataRowAhead(m, i+1) {
				return finish(table)
			}
		case IsHeaderRow(cells):
			// Pagination repeats the header mid-stream.
		case isLikelyFooterRow(cells):
			return finish(table)
		case !hasDataShape(cells):
			if !hasDataRowAhead(m, i+1) {
				return finish(table)
			}
		default:
			table.Rows = append(table.Rows, trimmed(cells))
		}
	}
	return finish(table)
}

func finish(t *Table) (*Table, error) {
	if len(t.Rows) == 0 {
		return nil, ErrNoDataRows
	}
	return t, nil
}

// IsHeaderRow reports whether the row's folded cells hit the header
// vocabulary at least twice.
func IsHeaderRow(cells []string) bool {
	hits := 0
	for _, cell := range cells {
		folded := normalize.Fold(cell)
		if folded == "" {
			continue
		}
		for _, token := range headerVocabulary {
			if strings.Contains(folded, token) {
				hits++
				break
			}
		}
	}
	return hits >= 2
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isLikelyFooterRow matches summary rows by their leading text.
func isLikelyFooterRow(cells []string) bool {
	for _, cell := range cells {
		folded := normalize.Fold(cell)
		if folded == "" {
			continue
		}
		for _, prefix := range footerPrefixes {
			if strings.HasPrefix(folded, prefix) {
				return true
			}
		}
		return false
	}
	return false
}

// hasDataShape reports whether any cell parses as a number or date, the
// minimum for a row to count as transaction data.
func hasDataShape(cells []string) bool {
	for _, cell := range cells {
		if _, ok := normalize.ParseNumber(cell); ok {
			return true
		}
		if _, ok := normalize.ParseDate(cell); ok {
			return true
		}
	}
	return false
}

func hasDataRowAhead(m decoder.Matrix, from int) bool {
	for i := from; i < len(m); i++ {
		cells := m[i].Strings()
		if isBlankRow(cells) || IsHeaderRow(cells) || isLikelyFooterRow(cells) {
			continue
		}
		if hasDataShape(cells) {
			return true
		}
	}
	return false
}

func trimmed(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
