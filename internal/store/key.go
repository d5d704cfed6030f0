package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrKeyExpired = errors.New("service key expired")

// InspectServiceKey parses the store service key as a JWT and rejects
// malformed or expired keys. The client holds no signing secret, so the
// signature itself is not verified; this is a startup sanity check, not an
// authentication step.
func InspectServiceKey(key string, now time.Time) error {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(key, claims); err != nil {
		return fmt.Errorf("invalid service key: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("invalid service key: %w", err)
	}
	if exp != nil && exp.Before(now) {
		return ErrKeyExpired
	}
	return nil
}
