package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret")

	signed, err := tokens.Generate("user-123", "ada", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := NewTokenService("secret-a").Generate("user-123", "ada", "user")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(signed)
	assert.Error(t, err)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tokens := NewTokenService("test-secret")
	signed, err := tokens.Generate("user-123", "ada", "user")
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + ".eyJ1c2VyX2lkIjoib3RoZXIifQ." + parts[2]

	_, err = tokens.Verify(tampered)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokenService("test-secret")
	_, err := tokens.Verify("not.a.token")
	assert.Error(t, err)
}
