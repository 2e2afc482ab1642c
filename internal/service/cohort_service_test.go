package service

import (
	"strings"
	"testing"
)

func TestGenerateJoinCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := generateJoinCode()
		if err != nil {
			t.Fatalf("generateJoinCode: %v", err)
		}
		if len(code) != joinCodeLen {
			t.Fatalf("code %q has length %d, want %d", code, len(code), joinCodeLen)
		}
		for _, r := range code {
			if !strings.ContainsRune(joinCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	// 31^6 codes; 100 draws colliding would point at a broken generator.
	if len(seen) < 90 {
		t.Errorf("only %d distinct codes out of 100", len(seen))
	}
}

func TestGenerateJoinCode_CoversWholeAlphabet(t *testing.T) {
	// A generator biased by the byte-mod-alphabet skew overweights the
	// first characters; with enough draws every character must show up.
	counts := map[rune]int{}
	for i := 0; i < 500; i++ {
		code, err := generateJoinCode()
		if err != nil {
			t.Fatalf("generateJoinCode: %v", err)
		}
		for _, r := range code {
			counts[r]++
		}
	}
	// 3000 characters over a 31-rune alphabet, ~97 expected each; a
	// missing character is a one-in-astronomical event.
	for _, r := range joinCodeAlphabet {
		if counts[r] == 0 {
			t.Errorf("character %q never generated in 500 codes", r)
		}
	}
}
