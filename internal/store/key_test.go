package store

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedKey(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "anon",
		"exp":  exp.Unix(),
	})
	s, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestInspectServiceKey_Valid(t *testing.T) {
	now := time.Now()
	key := signedKey(t, now.Add(time.Hour))
	require.NoError(t, InspectServiceKey(key, now))
}

func TestInspectServiceKey_Expired(t *testing.T) {
	now := time.Now()
	key := signedKey(t, now.Add(-time.Hour))
	err := InspectServiceKey(key, now)
	require.ErrorIs(t, err, ErrKeyExpired)
}

func TestInspectServiceKey_Garbage(t *testing.T) {
	require.Error(t, InspectServiceKey("not-a-jwt", time.Now()))
}
