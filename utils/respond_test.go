package utils

import "testing"

func TestGenerateRandomString(t *testing.T) {
	a := GenerateRandomString(6)
	b := GenerateRandomString(6)
	if len(a) != 6 || len(b) != 6 {
		t.Fatalf("expected length 6, got %q and %q", a, b)
	}
	if a == b {
		t.Fatalf("expected different tokens, got %q twice", a)
	}
	for _, r := range a {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			t.Fatalf("unexpected character %q in token", r)
		}
	}
}
