package normalize

import (
	"strconv"
	"strings"
	"unicode"
)

var currencyCleaner = strings.NewReplacer("R$", "", "US$", "", "$", "", "€", "", " ", "", " ", "", "\t", "")

// ParseNumber converts a localized numeric string into a float64. It
// accepts Brazilian ("1.234,56") and US ("1,234.56") conventions, strips
// currency symbols and whitespace, and treats parenthesized values as
// negative. The rightmost of comma/dot within the last four characters is
// taken as the decimal separator; the other is a thousands separator.
// Header-like alphabetic strings and empty input report ok=false.
func ParseNumber(value string) (float64, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = currencyCleaner.Replace(s)
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	for _, r := range s {
		if r != ',' && r != '.' && !unicode.IsDigit(r) {
			return 0, false
		}
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	var decimal byte
	switch {
	case lastComma == -1 && lastDot == -1:
		// plain integer
	case lastComma > lastDot:
		if len(s)-lastComma <= 4 {
			decimal = ','
		}
	default:
		if len(s)-lastDot <= 4 {
			decimal = '.'
		}
	}

	switch decimal {
	case ',':
		s = strings.ReplaceAll(s, ".", "")
		i := strings.LastIndex(s, ",")
		s = strings.ReplaceAll(s[:i], ",", "") + "." + s[i+1:]
	case '.':
		s = strings.ReplaceAll(s, ",", "")
		i := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:i], ".", "") + s[i:]
	default:
		s = strings.ReplaceAll(s, ",", "")
		s = strings.ReplaceAll(s, ".", "")
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
