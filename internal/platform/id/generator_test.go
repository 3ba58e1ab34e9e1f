package id

import (
	"strings"
	"testing"
)

func TestNewID_UniqueAndHex(t *testing.T) {
	g := NewRandomGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := g.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if len(id) != 32 {
			t.Fatalf("expected 32 hex chars, got %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewJoinCode_AlphabetAndLength(t *testing.T) {
	g := NewRandomGenerator()
	for i := 0; i < 100; i++ {
		code, err := g.NewJoinCode()
		if err != nil {
			t.Fatalf("new join code: %v", err)
		}
		if len(code) != joinCodeLength {
			t.Fatalf("expected %d chars, got %q", joinCodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(joinCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}
