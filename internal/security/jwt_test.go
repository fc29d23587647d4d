package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-characters!!!", 15*time.Minute)

	token, err := manager.GenerateToken(42, "test@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "askjejo", claims.Issuer)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-characters!!!", -1*time.Minute)

	token, err := manager.GenerateToken(1, "expired@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	manager := NewJWTManager("secret-one-32-characters-long!!!", 15*time.Minute)
	other := NewJWTManager("secret-two-32-characters-long!!!", 15*time.Minute)

	token, err := manager.GenerateToken(7, "user@example.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_GarbageToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-characters!!!", 15*time.Minute)

	_, err := manager.ValidateToken("not.a.token")
	assert.Error(t, err)
}
