// internal/challenge/challenge.go
package challenge

import (
	"math/rand/v2"
	"strings"
)

// DefaultLength is the number of symbols in a generated challenge.
const DefaultLength = 5

// Generate returns length symbols drawn independently and uniformly from the
// alphabet. A non-positive length falls back to DefaultLength.
func Generate(length int) string {
	if length <= 0 {
		length = DefaultLength
	}
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return sb.String()
}

// RandomBetween returns a uniform sample in [min, max).
func RandomBetween(min, max float64) float64 {
	return rand.Float64()*(max-min) + min
}

// Normalize uppercases user input before comparison. Nothing else is
// rewritten, so stray whitespace still fails IsValidInput.
func Normalize(input string) string {
	return strings.ToUpper(input)
}

// IsValidInput reports whether input is non-empty and made only of symbols
// from the alphabet. Callers normalize first, so lowercase never reaches here.
func IsValidInput(input string) bool {
	if input == "" {
		return false
	}
	for i := 0; i < len(input); i++ {
		c := input[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
