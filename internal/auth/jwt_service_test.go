package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillhub/internal/cache"
	"skillhub/internal/model"
)

func testProfile() *model.Profile {
	p := model.NewProfile("Alex Doe", "alex@example.com")
	p.ID = uuid.New()
	return p
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	profile := testProfile()
	profile.Role = model.RoleAdmin

	token, err := svc.GenerateAccessToken(profile)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID.String(), claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	id, err := claims.ProfileID()
	require.NoError(t, err)
	assert.Equal(t, profile.ID, id)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, err := NewJWTService("one").GenerateAccessToken(testProfile())
	require.NoError(t, err)

	_, err = NewJWTService("two").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateAccessToken(testProfile())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RefreshTokenType(t *testing.T) {
	svc := NewJWTService("test-secret")
	profile := testProfile()

	access, err := svc.GenerateAccessToken(profile)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err, "access tokens must not refresh")

	tokenID, refresh, err := svc.GenerateRefreshToken(profile)
	require.NoError(t, err)
	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, tokenID, claims.ID)
}

func TestTokenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewTokenStore(cache.New(mr.Addr(), "", 0, "test:"))
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "tid", "user-1", time.Hour))
	userID, err := store.GetRefreshToken(ctx, "tid")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, store.DeleteRefreshToken(ctx, "tid"))
	_, err = store.GetRefreshToken(ctx, "tid")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}
