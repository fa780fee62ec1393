package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clicksapp/clicks/internal/app/models"
)

func newTestJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "clicks.test",
	})
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	user := &models.User{ID: 42, Email: "alice@example.com"}

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)

	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)
	assert.Equal(t, 3600, expiresIn)
	assert.Equal(t, 86400, refreshExpiresIn)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "clicks.test", claims.Issuer)
}

func TestValidateToken(t *testing.T) {
	t.Run("rejects expired token", func(t *testing.T) {
		svc := newTestJWTService(-time.Minute)
		user := &models.User{ID: 42, Email: "alice@example.com"}

		access, _, _, _, err := svc.GenerateTokenPair(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(access)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		signer := newTestJWTService(time.Hour)
		user := &models.User{ID: 42, Email: "alice@example.com"}

		access, _, _, _, err := signer.GenerateTokenPair(user)
		require.NoError(t, err)

		verifier := NewJWTService(JWTConfig{
			SecretKey:       "different-secret",
			AccessTokenExp:  time.Hour,
			RefreshTokenExp: 24 * time.Hour,
			TokenIssuer:     "clicks.test",
		})

		_, err = verifier.ValidateToken(access)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestJWTService(time.Hour)

		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestValidateAndExtractClaims(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	t.Run("empty token is invalid", func(t *testing.T) {
		_, err := svc.ValidateAndExtractClaims("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("valid token passes", func(t *testing.T) {
		access, _, _, _, err := svc.GenerateTokenPair(&models.User{ID: 42, Email: "alice@example.com"})
		require.NoError(t, err)

		claims, err := svc.ValidateAndExtractClaims(access)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserID)
	})
}

func TestExtractBearerToken(t *testing.T) {
	t.Run("strips Bearer prefix", func(t *testing.T) {
		token, err := ExtractBearerToken("Bearer abc123")
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)
	})

	t.Run("passes through bare token", func(t *testing.T) {
		token, err := ExtractBearerToken("abc123")
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)
	})

	t.Run("rejects empty header", func(t *testing.T) {
		_, err := ExtractBearerToken("")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}
