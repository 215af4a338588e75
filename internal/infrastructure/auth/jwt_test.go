package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	})
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, expiresAt, err := svc.Issue(userID, "jean", identity.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "jean", claims.Username)
	assert.Equal(t, identity.RoleManager, claims.GetRole())
	assert.NotEmpty(t, claims.ID)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: -1 * time.Hour, // Already expired
		Issuer:     "test-issuer",
	})

	token, _, err := svc.Issue(uuid.New(), "jean", identity.RoleCashier)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_DifferentSecret(t *testing.T) {
	svc1 := newTestJWTService()
	token, _, err := svc1.Issue(uuid.New(), "jean", identity.RoleCashier)
	require.NoError(t, err)

	svc2 := NewJWTService(config.JWTConfig{
		Secret:     "different-secret-key-32-chars!!!",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	})

	_, err = svc2.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_EveryTokenGetsAFreshJTI(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	first, _, err := svc.Issue(userID, "jean", identity.RoleCashier)
	require.NoError(t, err)
	second, _, err := svc.Issue(userID, "jean", identity.RoleCashier)
	require.NoError(t, err)

	firstClaims, err := svc.Validate(first)
	require.NoError(t, err)
	secondClaims, err := svc.Validate(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}
