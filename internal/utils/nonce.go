package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecret returns n random bytes, used as the signing key when none
// is configured. Tokens signed with it die with the process.
func GenerateSecret(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("secret length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random secret: %w", err)
	}
	return b, nil
}

// EncodeSecret renders a secret for logs and config files.
func EncodeSecret(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
