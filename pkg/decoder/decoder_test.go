package decoder

import (
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"extrato.csv":   FormatCSV,
		"Extrato.TXT":   FormatTXT,
		"fatura.xls":    FormatXLS,
		"planilha.xlsx": FormatXLSX,
	}
	for name, want := range cases {
		got, err := DetectFormat(name)
		if err != nil {
			t.Errorf("DetectFormat(%q) error: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("DetectFormat(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDetectFormatRejectsUnsupported(t *testing.T) {
	_, err := DetectFormat("extrato.pdf")
	if err == nil {
		t.Fatal("expected error for .pdf")
	}
	msg := err.Error()
	for _, ext := range []string{".csv", ".txt", ".xls", ".xlsx"} {
		if !strings.Contains(msg, ext) {
			t.Errorf("error %q does not name allowed extension %s", msg, ext)
		}
	}
}

func TestDetectSeparator(t *testing.T) {
	semicolon := []string{"a;b;c", "1;2;3", "4;5;6"}
	if got := DetectSeparator(semicolon); got != ';' {
		t.Errorf("DetectSeparator = %q, want ;", got)
	}

	comma := []string{"a,b,c", "1,2,3"}
	if got := DetectSeparator(comma); got != ',' {
		t.Errorf("DetectSeparator = %q, want ,", got)
	}

	// Inconsistent counts disqualify a candidate.
	mixed := []string{"a,b", "1,2,3,4"}
	if got := DetectSeparator(mixed); got != 0 {
		t.Errorf("DetectSeparator = %q, want none", got)
	}
}

func TestTextDecoderDelimited(t *testing.T) {
	data := []byte("Data;Descrição;Valor\n10/01/2026;Supermercado;-150,00\n")
	matrix, err := Decode(data, "extrato.txt")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(matrix) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(matrix))
	}
	if got := matrix[1][1].String(); got != "Supermercado" {
		t.Errorf("cell = %q, want Supermercado", got)
	}
}

func TestTextDecoderFixedWidth(t *testing.T) {
	data := []byte("10/01/2026   Supermercado Central   -150,00\n11/01/2026   Uber                  -25,50\n")
	matrix, err := Decode(data, "extrato.txt")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(matrix) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(matrix))
	}
	if got := len(matrix[0]); got != 3 {
		t.Fatalf("expected 3 columns, got %d: %v", got, matrix[0].Strings())
	}
	if got := matrix[0][1].String(); got != "Supermercado Central" {
		t.Errorf("cell = %q, want Supermercado Central", got)
	}
}

func TestDecodeTextLatin1Fallback(t *testing.T) {
	// "Descrição" encoded as ISO-8859-1; invalid as UTF-8.
	data := []byte{'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o'}
	if got := DecodeText(data); got != "Descrição" {
		t.Errorf("DecodeText = %q, want Descrição", got)
	}
}

func TestXLSDecoderRoutesHTMLDisguisedFiles(t *testing.T) {
	data := []byte(`<html><body><table>
<tr><th>Data</th><th>Histórico</th><th>Valor</th></tr>
<tr><td>10/01/2026</td><td>Supermercado</td><td>-150,00</td></tr>
</table></body></html>`)
	matrix, err := Decode(data, "extrato.xls")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(matrix) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(matrix))
	}
	if got := matrix[1][2].String(); got != "-150,00" {
		t.Errorf("cell = %q, want -150,00", got)
	}
}

func TestXLSDecoderRejectsUnreadableBinary(t *testing.T) {
	if _, err := Decode([]byte{0x00, 0x01, 0x02, 0x03}, "extrato.xls"); err == nil {
		t.Fatal("expected error for unreadable binary")
	}
}

func TestTypedCell(t *testing.T) {
	if c := typedCell("45678"); c.Kind != CellNumber || c.Number != 45678 {
		t.Errorf("typedCell(45678) = %+v, want number", c)
	}
	if c := typedCell("007"); c.Kind != CellText || c.Text != "007" {
		t.Errorf("typedCell(007) = %+v, want text (zero padding preserved)", c)
	}
	if c := typedCell("Supermercado"); c.Kind != CellText {
		t.Errorf("typedCell(Supermercado) = %+v, want text", c)
	}
}
