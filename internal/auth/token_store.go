package auth

import (
	"context"
	"errors"
	"time"

	"skillhub/internal/cache"
)

const refreshTokenKeyPrefix = "refresh_token:"

// ErrRefreshTokenNotFound is returned when a refresh token is unknown or revoked.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
}

// TokenStore keeps refresh token IDs in Redis.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

type refreshTokenRecord struct {
	UserID string `json:"user_id"`
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	return s.cache.SetJSON(ctx, refreshTokenKeyPrefix+tokenID, refreshTokenRecord{UserID: userID}, ttl)
}

// GetRefreshToken returns the profile ID a refresh token was issued to.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	var rec refreshTokenRecord
	if !s.cache.GetJSON(ctx, refreshTokenKeyPrefix+tokenID, &rec) || rec.UserID == "" {
		return "", ErrRefreshTokenNotFound
	}
	return rec.UserID, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}
