package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcare/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-chars!!",
		RefreshSecret:          "test-refresh-secret-at-least-32-chars!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "vetcare-backend",
		MaxRefreshCount:        5,
	})
}

func testTokenInput() GenerateTokenInput {
	return GenerateTokenInput{
		HospitalID: uuid.New(),
		UserID:     uuid.New(),
		Username:   "drkim",
		Role:       "VET",
	}
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	input := testTokenInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	t.Run("round trips claims", func(t *testing.T) {
		svc := newTestJWTService()
		input := testTokenInput()

		pair, err := svc.GenerateTokenPair(input)
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, input.HospitalID.String(), claims.HospitalID)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, "drkim", claims.Username)
		assert.Equal(t, "VET", claims.Role)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)

		hospitalID, err := claims.GetHospitalUUID()
		require.NoError(t, err)
		assert.Equal(t, input.HospitalID, hospitalID)
	})

	t.Run("rejects refresh token as access token", func(t *testing.T) {
		svc := newTestJWTService()

		pair, err := svc.GenerateTokenPair(testTokenInput())
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("rejects tampered signature", func(t *testing.T) {
		svc := newTestJWTService()

		pair, err := svc.GenerateTokenPair(testTokenInput())
		require.NoError(t, err)

		parts := strings.Split(pair.AccessToken, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + ".invalidsignature"

		_, err = svc.ValidateAccessToken(tampered)
		assert.Error(t, err)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		svc := newTestJWTService()
		other := NewJWTService(config.JWTConfig{
			Secret:                 "completely-different-secret-32-chars!!",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 168 * time.Hour,
			Issuer:                 "vetcare-backend",
		})

		pair, err := other.GenerateTokenPair(testTokenInput())
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		svc := newTestJWTService()

		_, err := svc.ValidateAccessToken("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	t.Run("issues a fresh pair from a refresh token", func(t *testing.T) {
		svc := newTestJWTService()
		input := testTokenInput()

		pair, err := svc.GenerateTokenPair(input)
		require.NoError(t, err)

		refreshed, err := svc.RefreshTokenPair(pair.RefreshToken, input.Username, input.Role)
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(refreshed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, input.UserID.String(), claims.UserID)

		refreshClaims, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, refreshClaims.RefreshCount)
	})

	t.Run("rejects access token used as refresh token", func(t *testing.T) {
		svc := newTestJWTService()
		input := testTokenInput()

		pair, err := svc.GenerateTokenPair(input)
		require.NoError(t, err)

		_, err = svc.RefreshTokenPair(pair.AccessToken, input.Username, input.Role)
		assert.Error(t, err)
	})

	t.Run("enforces max refresh count", func(t *testing.T) {
		svc := newTestJWTService()
		input := testTokenInput()

		pair, err := svc.GenerateTokenPair(input)
		require.NoError(t, err)

		current := pair.RefreshToken
		for i := 0; i < 5; i++ {
			next, err := svc.RefreshTokenPair(current, input.Username, input.Role)
			require.NoError(t, err)
			current = next.RefreshToken
		}

		_, err = svc.RefreshTokenPair(current, input.Username, input.Role)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(testTokenInput())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}
