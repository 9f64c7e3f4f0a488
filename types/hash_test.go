package types

import (
	"strings"
	"testing"
)

func TestHashOfDeterministic(t *testing.T) {
	a := HashOf([]byte("hello"))
	b := HashOf([]byte("hello"))
	if a != b {
		t.Error("same input must produce the same digest")
	}
	if a == HashOf([]byte("hellp")) {
		t.Error("different inputs must produce different digests")
	}
	if a.IsZero() {
		t.Error("digest of non-empty input should not be zero")
	}
	if !(Hash{}).IsZero() {
		t.Error("zero value must report IsZero")
	}
}

func TestHashHexRoundTrip(t *testing.T) {
	h := HashOf([]byte("round trip"))
	parsed, err := HashFromHex(h.String())
	if err != nil {
		t.Fatalf("HashFromHex failed: %v", err)
	}
	if parsed != h {
		t.Errorf("round trip mismatch: %s != %s", parsed, h)
	}

	if _, err := HashFromHex("zz"); err == nil {
		t.Error("expected error for non-hex input")
	}
	if _, err := HashFromHex(strings.Repeat("ab", 31)); err == nil {
		t.Error("expected error for short input")
	}
}

func TestHashTextMarshal(t *testing.T) {
	h := HashOf([]byte("text"))
	text, err := h.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	var back Hash
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if back != h {
		t.Errorf("text round trip mismatch: %s != %s", back, h)
	}
}
