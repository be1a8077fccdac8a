package common

import (
	"regexp"
	"testing"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 2*n {
		t.Fatalf("expected length %d, got %d", 2*n, len(s))
	}
	if !regexp.MustCompile(`^[0-9a-f]+$`).MatchString(s) {
		t.Fatalf("expected lowercase hex, got %q", s)
	}
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	if err != nil {
		t.Fatalf("unexpected error for size=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for size=0, got %q", s)
	}
}

// Probabilistic, but with 128-bit values a collision across 10000 draws
// would point at a broken generator rather than bad luck.
func TestMakeRandHexString_NoCollisions(t *testing.T) {
	const draws = 10000
	seen := make(map[string]struct{}, draws)
	for i := 0; i < draws; i++ {
		s, err := MakeRandHexString(16)
		if err != nil {
			t.Fatalf("unexpected error on draw %d: %v", i, err)
		}
		if _, ok := seen[s]; ok {
			t.Fatalf("collision after %d draws: %q", i, s)
		}
		seen[s] = struct{}{}
	}
}
