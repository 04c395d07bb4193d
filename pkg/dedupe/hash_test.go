package dedupe

import "testing"

func TestHashIsDeterministic(t *testing.T) {
	a := Hash("2026-01-10", -150, "Supermercado")
	b := Hash("2026-01-10", -150, "Supermercado")
	if a != b {
		t.Errorf("identical inputs produced different hashes: %s vs %s", a, b)
	}
}

func TestHashNormalizesDescription(t *testing.T) {
	a := Hash("2026-01-10", -150, "  Supermercado ")
	b := Hash("2026-01-10", -150, "SUPERMERCADO")
	if a != b {
		t.Error("case/whitespace variants of the description changed the hash")
	}
}

func TestHashChangesWithAnyInput(t *testing.T) {
	base := Hash("2026-01-10", -150, "Supermercado")
	if Hash("2026-01-11", -150, "Supermercado") == base {
		t.Error("date change did not change hash")
	}
	if Hash("2026-01-10", -150.01, "Supermercado") == base {
		t.Error("amount change did not change hash")
	}
	if Hash("2026-01-10", -150, "Padaria") == base {
		t.Error("description change did not change hash")
	}
}

func TestHashRoundsToCents(t *testing.T) {
	a := Hash("2026-01-10", -150.001, "Supermercado")
	b := Hash("2026-01-10", -150.0, "Supermercado")
	if a != b {
		t.Error("sub-cent difference changed the hash")
	}
}

func TestSet(t *testing.T) {
	s := NewSet([]string{"abc"})
	if !s.Contains("abc") {
		t.Error("seeded hash missing from set")
	}
	if s.Contains("def") {
		t.Error("unexpected hash present")
	}
	s.Add("def")
	if !s.Contains("def") {
		t.Error("added hash missing")
	}
}
