package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidateAccessToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-enough-length", 15*time.Minute, 72*time.Hour)

	token, err := manager.GenerateAccessToken("ivan", "PATIENT")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ivan", claims.Username)
	assert.Equal(t, "PATIENT", claims.Role)
	assert.Equal(t, "ivan", claims.Subject)
}

func TestJWTManager_ValidateToken_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-enough-length", 15*time.Minute, 72*time.Hour)
	other := NewJWTManager("completely-different-secret-key-here", 15*time.Minute, 72*time.Hour)

	token, err := other.GenerateAccessToken("ivan", "PATIENT")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_ValidateToken_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-enough-length", -time.Minute, 72*time.Hour)

	token, err := manager.GenerateAccessToken("ivan", "PATIENT")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_ValidateToken_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-enough-length", 15*time.Minute, 72*time.Hour)

	_, err := manager.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_GenerateRefreshToken_Unique(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-enough-length", 15*time.Minute, 72*time.Hour)

	first, err := manager.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := manager.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.GreaterOrEqual(t, len(first), 43) // 32 байта в base64url
}

func TestTokenHash_Stable(t *testing.T) {
	assert.Equal(t, TokenHash("token"), TokenHash("token"))
	assert.NotEqual(t, TokenHash("token"), TokenHash("other"))
	assert.Len(t, TokenHash("token"), 64) // hex SHA-256
}
