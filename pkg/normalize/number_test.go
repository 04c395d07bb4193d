package normalize

import "testing"

func TestParseNumberBrazilianConvention(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"-150,00", -150},
		{"2.327,00", 2327},
		{"0,50", 0.5},
		{"R$ 99,90", 99.9},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if !ok {
			t.Errorf("ParseNumber(%q) not ok", c.in)
			continue
		}
		if got != c.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseNumberUSConvention(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1,234.56", 1234.56},
		{"-25.50", -25.5},
		{"$2,000.00", 2000},
		{"+300.10", 300.1},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if !ok || got != c.want {
			t.Errorf("ParseNumber(%q) = %v, %v, want %v", c.in, got, ok, c.want)
		}
	}
}

func TestParseNumberParenthesesAreNegative(t *testing.T) {
	got, ok := ParseNumber("(1.000,00)")
	if !ok || got != -1000 {
		t.Errorf("ParseNumber((1.000,00)) = %v, %v, want -1000", got, ok)
	}
}

func TestParseNumberRejectsNonNumeric(t *testing.T) {
	for _, in := range []string{"", "   ", "valor", "Saldo Anterior", "10/01/2026", "12a"} {
		if got, ok := ParseNumber(in); ok {
			t.Errorf("ParseNumber(%q) = %v, want not ok", in, got)
		}
	}
}
