package auth

import (
	"context"
	"testing"
	"time"

	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-test-secret-test-secret",
		Expiration: expiration,
		Issuer:     "sabores-backend",
	})
}

func testUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("admin@sabores.pt", "Admin", "correcthorse1", identity.RoleAdmin, 0)
	require.NoError(t, err)
	return user
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	user := testUser(t)

	session, err := svc.GenerateSessionToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateSessionToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "admin@sabores.pt", claims.Email)
	assert.Equal(t, identity.RoleAdmin, claims.Role)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed)
}

func TestValidateSessionToken(t *testing.T) {
	svc := newTestService(time.Hour)
	user := testUser(t)

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateSessionToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret: "another-secret-another-secret-12345", Expiration: time.Hour, Issuer: "sabores-backend",
		})
		session, err := other.GenerateSessionToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateSessionToken(session.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		short := newTestService(-time.Minute)
		session, err := short.GenerateSessionToken(user)
		require.NoError(t, err)

		_, err = short.ValidateSessionToken(session.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestRemainingTTL(t *testing.T) {
	svc := newTestService(time.Hour)
	session, err := svc.GenerateSessionToken(testUser(t))
	require.NoError(t, err)

	claims, err := svc.ValidateSessionToken(session.Token)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 55*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestInMemorySessionRevoker(t *testing.T) {
	revoker := NewInMemorySessionRevoker()
	ctx := context.Background()

	revoked, err := revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Zero TTL means the token is already expired, nothing to store
	require.NoError(t, revoker.Revoke(ctx, "jti-2", 0))
	revoked, err = revoker.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
