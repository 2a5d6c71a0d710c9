package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sinanfen/to-dogether-web-sub000/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func TestInspect(t *testing.T) {
	issued := time.Now().Add(-time.Hour).Truncate(time.Second)
	expires := time.Now().Add(time.Hour).Truncate(time.Second)

	tokenString := signedToken(t, jwt.MapClaims{
		"sub":      "42",
		"username": "alice",
		"iat":      issued.Unix(),
		"exp":      expires.Unix(),
	})

	info, err := auth.Inspect(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "42", info.Subject)
	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, issued.Unix(), info.IssuedAt.Unix())
	assert.Equal(t, expires.Unix(), info.ExpiresAt.Unix())
}

func TestInspect_NotAJWT(t *testing.T) {
	_, err := auth.Inspect("opaque-random-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestInspect_MissingClaims(t *testing.T) {
	tokenString := signedToken(t, jwt.MapClaims{"sub": "42"})

	info, err := auth.Inspect(tokenString)
	require.NoError(t, err)
	assert.True(t, info.ExpiresAt.IsZero())
	assert.Empty(t, info.Username)
}

func TestTokenInfo_Expired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{name: "future expiry", expiresAt: now.Add(time.Minute), want: false},
		{name: "past expiry", expiresAt: now.Add(-time.Minute), want: true},
		{name: "no expiry claim", expiresAt: time.Time{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &auth.TokenInfo{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, info.Expired(now))
		})
	}
}
