// Package tokeninfo reads claims from the backend's bearer token without
// verifying it. The front end never holds the signing key; the values are only
// used to size storage TTLs and for display.
package tokeninfo

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the token the front end cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Parse decodes token as a JWT. ok is false for opaque tokens.
func Parse(token string) (Claims, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, false
	}

	var out Claims
	out.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, true
}

// Expiry returns the token's exp claim, zero when it cannot be read.
func Expiry(token string) time.Time {
	claims, ok := Parse(token)
	if !ok {
		return time.Time{}
	}
	return claims.ExpiresAt
}

// TTL returns how long a session holding token should be kept: until the
// token's expiry when it is readable and still in the future, fallback
// otherwise.
func TTL(token string, fallback time.Duration, now time.Time) time.Duration {
	return Until(Expiry(token), fallback, now)
}

// Until is the time left before expiresAt, or fallback when expiresAt is zero
// or already past.
func Until(expiresAt time.Time, fallback time.Duration, now time.Time) time.Duration {
	if expiresAt.IsZero() {
		return fallback
	}
	if left := expiresAt.Sub(now); left > 0 {
		return left
	}
	return fallback
}
