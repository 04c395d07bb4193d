package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/budgetbr/extratu/pkg/decoder"
)

func matrixOf(rows ...[]string) decoder.Matrix {
	var m decoder.Matrix
	for _, r := range rows {
		cells := make(decoder.Row, len(r))
		for i, c := range r {
			cells[i] = decoder.TextCell(c)
		}
		m = append(m, cells)
	}
	return m
}

func TestExtractSkipsLetterheadAndFooter(t *testing.T) {
	m := matrixOf(
		[]string{"Banco Exemplo S.A."},
		[]string{"Extrato gerado em 15/01/2026"},
		[]string{"Cliente: Maria", "CPF: 123.456.789-00"},
		[]string{""},
		[]string{"Data", "Histórico", "Valor"},
		[]string{"10/01/2026", "Supermercado", "-150,00"},
		[]string{"11/01/2026", "Uber", "-25,50"},
		[]string{"12/01/2026", "Padaria", "-12,00"},
		[]string{""},
		[]string{"Total do Período", "", "-187,50"},
	)

	tbl, err := Extract(m)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if tbl.HeaderIndex != 4 {
		t.Errorf("HeaderIndex = %d, want 4", tbl.HeaderIndex)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("expected 3 data rows, got %d: %v", len(tbl.Rows), tbl.Rows)
	}
	for _, row := range tbl.Rows {
		joined := strings.Join(row, " ")
		if strings.Contains(joined, "Total") || strings.Contains(joined, "Banco") {
			t.Errorf("letterhead/footer leaked into data: %v", row)
		}
	}
}

func TestExtractSkipsRepeatedHeaderMidStream(t *testing.T) {
	m := matrixOf(
		[]string{"Data", "Descrição", "Valor"},
		[]string{"10/01/2026", "Supermercado", "-150,00"},
		[]string{"Data", "Descrição", "Valor"},
		[]string{"11/01/2026", "Uber", "-25,50"},
	)

	tbl, err := Extract(m)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(tbl.Rows))
	}
	if tbl.Rows[1][1] != "Uber" {
		t.Errorf("rows out of order after header repeat: %v", tbl.Rows)
	}
}

func TestExtractSkipsIsolatedBlankRow(t *testing.T) {
	m := matrixOf(
		[]string{"Data", "Descrição", "Valor"},
		[]string{"10/01/2026", "Supermercado", "-150,00"},
		[]string{""},
		[]string{"11/01/2026", "Uber", "-25,50"},
	)

	tbl, err := Extract(m)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("blank row terminated the block: got %d rows", len(tbl.Rows))
	}
}

func TestExtractTypedFailures(t *testing.T) {
	if _, err := Extract(nil); !errors.Is(err, ErrEmptyMatrix) {
		t.Errorf("Extract(nil) = %v, want ErrEmptyMatrix", err)
	}

	noHeader := matrixOf([]string{"um arquivo qualquer"}, []string{"sem cabecalho"})
	if _, err := Extract(noHeader); !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("Extract(no header) = %v, want ErrHeaderNotFound", err)
	}

	headerOnly := matrixOf([]string{"Data", "Descrição", "Valor"})
	if _, err := Extract(headerOnly); !errors.Is(err, ErrNoDataRows) {
		t.Errorf("Extract(header only) = %v, want ErrNoDataRows", err)
	}
}

func TestDelimitedQuotesSpecialCells(t *testing.T) {
	tbl := &Table{
		Columns: []string{"Data", "Descrição", "Valor"},
		Rows: [][]string{
			{"10/01/2026", "Mercado; filial 2", "-150,00"},
		},
	}
	out := tbl.Delimited(';')
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], `"Mercado; filial 2"`) {
		t.Errorf("cell containing delimiter not quoted: %q", lines[1])
	}
}
