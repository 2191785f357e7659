package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rent-easy-server/config"
)

func setupJWTConfig(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpiryHours: 1,
		},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	setupJWTConfig(t)
	js := NewJWTService()

	token, expiresIn, err := js.GenerateAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(3600), expiresIn)

	userID, err := js.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	setupJWTConfig(t)
	js := NewJWTService()

	_, err := js.ValidateAccessToken("not-a-token")
	assert.Error(t, err)

	_, err = js.ValidateAccessToken("")
	assert.Error(t, err)
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	setupJWTConfig(t)
	js := NewJWTService()

	token, _, err := js.GenerateAccessToken(42)
	require.NoError(t, err)

	config.AppConfig.JWT.Secret = "rotated-secret"
	_, err = js.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	js := NewJWTService()

	hash, err := js.HashPassword("s3cure-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cure-pass", hash)

	assert.True(t, js.CheckPasswordHash("s3cure-pass", hash))
	assert.False(t, js.CheckPasswordHash("wrong-pass", hash))
}
