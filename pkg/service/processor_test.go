package service

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/budgetbr/extratu/pkg/config"
	"github.com/budgetbr/extratu/pkg/decoder"
	"github.com/budgetbr/extratu/pkg/models"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	p, err := NewProcessor(&config.Config{SampleSize: 5}, log.Default())
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}
	return p
}

func TestProcessBytesEndToEnd(t *testing.T) {
	content := []byte("Data;Descrição;Valor\n10/01/2026;Supermercado;-150,00\n11/01/2026;Uber;-25,50")

	p := newTestProcessor(t)
	rows, _, err := p.ProcessBytes(content, "extrato.txt", models.AccountTypeBank)
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Status != models.RowOK {
		t.Fatalf("row 0 status = %s (%q)", first.Status, first.Reason)
	}
	if first.Transaction.Amount != -150 {
		t.Errorf("row 0 amount = %v, want -150", first.Transaction.Amount)
	}
	if first.Transaction.Date != "2026-01-10" {
		t.Errorf("row 0 date = %q, want 2026-01-10", first.Transaction.Date)
	}
	if first.Transaction.Category != "alimentacao" {
		t.Errorf("row 0 category = %q, want alimentacao", first.Transaction.Category)
	}

	second := rows[1]
	if second.Status != models.RowOK || second.Transaction.Amount != -25.5 {
		t.Errorf("row 1 = %s / %+v, want ok with -25.5", second.Status, second.Transaction)
	}
	if second.Transaction.Date != "2026-01-11" {
		t.Errorf("row 1 date = %q, want 2026-01-11", second.Transaction.Date)
	}
}

func TestProcessBytesStandardTemplate(t *testing.T) {
	content := []byte("data,descricao,tipo,valor,categoria,conta\n" +
		"10/01/2026,Supermercado,despesa,\"-150,00\",mercado,corrente\n" +
		"11/01/2026,Salário,receita,\"3.500,00\",renda,corrente")

	p := newTestProcessor(t)
	rows, analysis, err := p.ProcessBytes(content, "modelo.csv", models.AccountTypeBank)
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	if len(analysis.Mappings) != 4 {
		t.Errorf("template analysis has %d mappings, want 4", len(analysis.Mappings))
	}

	if rows[0].Status != models.RowOK {
		t.Fatalf("row 0 status = %s (%q)", rows[0].Status, rows[0].Reason)
	}
	if rows[0].Transaction.Category != "mercado" {
		t.Errorf("row 0 category = %q, want the file value mercado", rows[0].Transaction.Category)
	}
	// The positive-valued row is an inflow: the type tag never overrides the sign.
	if rows[1].Status != models.RowSkipped {
		t.Errorf("row 1 status = %s, want skipped", rows[1].Status)
	}
}

func TestProcessBytesRejectsUnsupportedExtension(t *testing.T) {
	p := newTestProcessor(t)
	_, _, err := p.ProcessBytes([]byte("%PDF-1.4"), "extrato.pdf", models.AccountTypeBank)
	if !errors.Is(err, decoder.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestProcessBytesHeaderNotFound(t *testing.T) {
	p := newTestProcessor(t)
	_, _, err := p.ProcessBytes([]byte("nada;para;ver\naqui;tambem;nao"), "extrato.csv", models.AccountTypeBank)
	if err == nil {
		t.Fatal("expected a file-level error for a table-less file")
	}
}

func TestProcessFileWritesReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "extrato.txt")
	content := "Data;Descrição;Valor\n10/01/2026;Supermercado;-150,00\n"
	if err := os.WriteFile(input, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p := newTestProcessor(t)
	if err := p.ProcessFile(input, "", models.AccountTypeBank); err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	report, err := os.ReadFile(filepath.Join(dir, "extrato-expenses.csv"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(report), "Supermercado") {
		t.Errorf("report missing transaction: %s", report)
	}
}

func TestWriteReportCSV(t *testing.T) {
	rows := []models.ParsedRow{
		{
			Index:  0,
			Status: models.RowOK,
			Transaction: &models.Transaction{
				Description: "Supermercado", Amount: -150, Category: "alimentacao",
				PaymentMethod: "pix", Date: "2026-01-10",
			},
		},
		{Index: 1, Status: models.RowSkipped, Reason: "income ignored"},
	}

	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, rows); err != nil {
		t.Fatalf("WriteReportCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "-150.00") {
		t.Errorf("ok row missing amount: %q", lines[1])
	}
	if !strings.Contains(lines[2], "income ignored") {
		t.Errorf("skipped row missing reason: %q", lines[2])
	}
}
