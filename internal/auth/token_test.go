package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	manager, err := NewTokenManager("test-secret", 15*time.Minute)
	require.NoError(t, err)

	token, err := manager.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidate_WrongSecret(t *testing.T) {
	signer, err := NewTokenManager("secret-a", time.Minute)
	require.NoError(t, err)
	verifier, err := NewTokenManager("secret-b", time.Minute)
	require.NoError(t, err)

	token, err := signer.Generate(1)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	manager, err := NewTokenManager("test-secret", -time.Minute)
	require.NoError(t, err)

	token, err := manager.Generate(1)
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Minute)
	require.NoError(t, err)

	_, err = manager.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", time.Minute)
	assert.Error(t, err)
}
