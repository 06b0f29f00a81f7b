package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt reads the exp claim of a token without verifying its signature.
// The panel only needs it to schedule refreshes; the backend remains the
// authority on validity. Tokens that are not JWTs, or carry no exp, report
// the zero time and no error, since the backend may issue opaque tokens.
func ExpiresAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	var c jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &c); err != nil {
		if isOpaque(raw) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if c.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return c.ExpiresAt.Time, nil
}

// isOpaque reports whether raw lacks the two dots of a compact JWS.
func isOpaque(raw string) bool {
	dots := 0
	for i := range len(raw) {
		if raw[i] == '.' {
			dots++
		}
	}
	return dots != 2
}
