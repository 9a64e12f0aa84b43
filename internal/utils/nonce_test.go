package utils

import (
	"bytes"
	"testing"
)

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateSecret(32)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 32 || len(b) != 32 {
		t.Fatalf("lengths %d, %d", len(a), len(b))
	}
	if bytes.Equal(a, b) {
		t.Fatal("two secrets are equal")
	}
	if got := EncodeSecret([]byte{0xff, 0xee}); got != "_-4" {
		t.Fatalf("EncodeSecret = %q", got)
	}
}

func TestGenerateSecretRejectsEmptyKey(t *testing.T) {
	for _, n := range []int{0, -1} {
		if b, err := GenerateSecret(n); err == nil || b != nil {
			t.Fatalf("GenerateSecret(%d) = %v, %v", n, b, err)
		}
	}
}
