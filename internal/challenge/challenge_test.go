package challenge_test

import (
	"strings"
	"testing"

	"scrawl/internal/challenge"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	for _, length := range []int{1, 5, 12} {
		for i := 0; i < 200; i++ {
			got := challenge.Generate(length)
			if len(got) != length {
				t.Fatalf("Generate(%d) length = %d", length, len(got))
			}
			for _, r := range got {
				if !strings.ContainsRune(challenge.Alphabet(), r) {
					t.Fatalf("Generate(%d) = %q contains %q", length, got, r)
				}
			}
		}
	}
}

func TestGenerateDefaultLength(t *testing.T) {
	for _, length := range []int{0, -3} {
		if got := challenge.Generate(length); len(got) != challenge.DefaultLength {
			t.Fatalf("Generate(%d) = %q, want %d symbols", length, got, challenge.DefaultLength)
		}
	}
}

func TestGenerateUniform(t *testing.T) {
	const n = 36000
	counts := make(map[rune]int)
	for i := 0; i < n; i++ {
		counts[rune(challenge.Generate(1)[0])]++
	}
	if len(counts) != 36 {
		t.Fatalf("saw %d distinct symbols, want 36", len(counts))
	}
	want := n / 36
	for r, c := range counts {
		if c < want*3/4 || c > want*5/4 {
			t.Errorf("symbol %q appeared %d times, want about %d", r, c, want)
		}
	}
}

func TestIsValidInput(t *testing.T) {
	cases := map[string]bool{
		"ABC123": true,
		"abc123": false,
		"AB-12":  false,
		"":       false,
		"A B":    false,
		"Ä1":     false,
		"Z9":     true,
	}
	for in, want := range cases {
		if got := challenge.IsValidInput(in); got != want {
			t.Errorf("IsValidInput(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizeThenValidate(t *testing.T) {
	in := challenge.Normalize("a7k9q")
	if in != "A7K9Q" {
		t.Fatalf("Normalize = %q", in)
	}
	if !challenge.IsValidInput(in) {
		t.Fatalf("normalized lowercase input rejected")
	}
	for _, padded := range []string{" a7k9q", "a7k9q\n", "A7K9Q "} {
		if got := challenge.Normalize(padded); challenge.IsValidInput(got) {
			t.Errorf("Normalize(%q) = %q passed validation", padded, got)
		}
	}
}

func TestRandomColorAlpha(t *testing.T) {
	palette := challenge.Palette()
	for _, alpha := range []float64{0.1, 0.3, 0.8, 1} {
		c := challenge.RandomColor(alpha)
		if want := uint8(alpha*255 + 0.5); c.A != want {
			t.Fatalf("RandomColor(%v).A = %d, want %d", alpha, c.A, want)
		}
		found := false
		for _, p := range palette {
			if p.R == c.R && p.G == c.G && p.B == c.B {
				found = true
			}
		}
		if !found {
			t.Fatalf("RandomColor returned %v outside the palette", c)
		}
	}
}

func TestRandomFontAndBetween(t *testing.T) {
	fonts := strings.Join(challenge.Fonts(), ",")
	for i := 0; i < 100; i++ {
		if f := challenge.RandomFont(); !strings.Contains(fonts, f) {
			t.Fatalf("RandomFont = %q", f)
		}
		if v := challenge.RandomBetween(-0.25, 0.25); v < -0.25 || v >= 0.25 {
			t.Fatalf("RandomBetween = %v", v)
		}
	}
}

func TestTablesAreCopies(t *testing.T) {
	f := challenge.Fonts()
	f[0] = "Comic Sans"
	if challenge.Fonts()[0] != "Arial" {
		t.Fatal("Fonts exposes its backing array")
	}
}
