package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("test-secret", time.Hour, "abc123", "admin")
	require.NoError(t, err)

	claims, err := ValidateJWT("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("test-secret", time.Hour, "abc123", "staff")
	require.NoError(t, err)

	_, err = ValidateJWT("other-secret", token)
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	token, err := GenerateJWT("test-secret", -time.Minute, "abc123", "staff")
	require.NoError(t, err)

	_, err = ValidateJWT("test-secret", token)
	assert.Error(t, err)
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	_, err := GenerateJWT("", time.Hour, "abc123", "staff")
	assert.Error(t, err)
}
