package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        expiry,
		RefreshExpiry: 2 * expiry,
		Issuer:        "reviseo-test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestManager(time.Hour)

	token, jti, err := manager.GenerateAccessToken(42, "alice@example.com", "student", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, jti, claims.ID)
}

func TestRefreshTokenType(t *testing.T) {
	manager := newTestManager(time.Hour)

	token, _, err := manager.GenerateRefreshToken(42, "alice@example.com", "student", 0)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	manager := newTestManager(time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := manager.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager(JWTConfig{Secret: "other-secret", Expiry: time.Hour})
		token, _, err := other.GenerateAccessToken(1, "a@b.c", "student", 0)
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := newTestManager(-time.Minute)
		token, _, err := expired.GenerateAccessToken(1, "a@b.c", "student", 0)
		require.NoError(t, err)

		_, err = expired.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
