// Package dedupe fingerprints normalized transactions so retried uploads
// and overlapping statements never insert the same expense twice.
package dedupe

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strings"
)

// Hash returns the deterministic import fingerprint of a transaction:
// sha256 over the ISO date, the cent-rounded amount and the lowercased
// trimmed description. Identical inputs always produce identical hashes.
func Hash(date string, amount float64, description string) string {
	cents := int64(math.Round(amount * 100))
	input := fmt.Sprintf("%s|%d|%s", date, cents, strings.ToLower(strings.TrimSpace(description)))
	sum := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", sum)
}

// Set is a lookup of already-imported fingerprints.
type Set map[string]struct{}

// NewSet builds a Set from existing (date, amount, description) tuples.
func NewSet(hashes []string) Set {
	set := make(Set, len(hashes))
	for _, h := range hashes {
		set[h] = struct{}{}
	}
	return set
}

// Contains reports whether the fingerprint was already imported.
func (s Set) Contains(hash string) bool {
	_, ok := s[hash]
	return ok
}

// Add records a fingerprint.
func (s Set) Add(hash string) {
	s[hash] = struct{}{}
}
