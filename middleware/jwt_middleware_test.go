package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, refresh, err := GenerateJWT("64f1a2b3c4d5e6f708192a3b", "admin@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, refresh)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1a2b3c4d5e6f708192a3b", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.UserType)
}

func TestParseJWTRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, _, err := GenerateJWT("64f1a2b3c4d5e6f708192a3b", "admin@example.com", "admin")
	require.NoError(t, err)

	_, err = ParseJWT(token + "x")
	assert.Error(t, err)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, _, err := GenerateJWT("64f1a2b3c4d5e6f708192a3b", "admin@example.com", "admin")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}
