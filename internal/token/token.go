// Package token signs the pass cookie handed out after a correct answer.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every reason a pass token is rejected.
var ErrInvalidToken = errors.New("invalid pass token")

// Claims binds a pass to the session that earned it.
type Claims struct {
	Session string `json:"sid"`
	jwt.RegisteredClaims
}

// Issuer signs and checks HS256 pass tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue returns a signed token for sessionID.
func (i *Issuer) Issue(sessionID string) (string, error) {
	now := i.now()
	claims := Claims{
		Session: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign pass token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and that the token belongs to sessionID.
func (i *Issuer) Verify(tokenString, sessionID string) error {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return ErrInvalidToken
	}
	if claims.Session != sessionID {
		return fmt.Errorf("%w: session mismatch", ErrInvalidToken)
	}
	return nil
}
