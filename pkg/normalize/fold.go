// Package normalize converts the free-text numbers and dates found in
// Brazilian and US bank exports into canonical values.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s, strips diacritics and trims surrounding whitespace.
// "Descrição" and "descricao" fold to the same token.
func Fold(s string) string {
	out, _, err := transform.String(diacritics, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
