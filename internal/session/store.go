package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheUnavailable wraps any Redis transport failure so callers can
// distinguish infrastructure errors from plain cache misses.
var ErrCacheUnavailable = errors.New("cache unavailable")

const (
	refreshTokenPrefix  = "refresh_token:"
	featuredProductsKey = "featured_products"
)

// RefreshTokenTTL matches the refresh-token lifetime: the cache entry and
// the signed token expire together.
const RefreshTokenTTL = 7 * 24 * time.Hour

// Store is the Redis-backed session cache. It tracks the single valid
// refresh token per user (last write wins) and the denormalized
// featured-products list.
type Store struct {
	redis redis.UniversalClient
}

// NewStore creates a session [Store] backed by the given Redis client.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{redis: client}
}

func refreshKey(userID string) string {
	return refreshTokenPrefix + userID
}

// SaveRefreshToken stores the refresh token for a user with a 7-day expiry,
// overwriting any prior value. Logging in elsewhere therefore invalidates
// the previous session implicitly.
func (s *Store) SaveRefreshToken(ctx context.Context, userID, token string) error {
	if err := s.redis.Set(ctx, refreshKey(userID), token, RefreshTokenTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// RefreshToken returns the cached refresh token for a user. A missing entry
// is reported as ("", false, nil), not as an error.
func (s *Store) RefreshToken(ctx context.Context, userID string) (string, bool, error) {
	val, err := s.redis.Get(ctx, refreshKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return val, true, nil
}

// ValidateRefreshToken reports whether the presented token exactly equals
// the cached value for the user. Any mismatch, including a cache miss or an
// expired entry, is invalid.
func (s *Store) ValidateRefreshToken(ctx context.Context, userID, presented string) (bool, error) {
	stored, found, err := s.RefreshToken(ctx, userID)
	if err != nil {
		return false, err
	}
	return found && stored == presented, nil
}

// DeleteRefreshToken removes the session entry unconditionally. Deleting an
// absent entry is not an error.
func (s *Store) DeleteRefreshToken(ctx context.Context, userID string) error {
	if err := s.redis.Del(ctx, refreshKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// FeaturedProducts returns the cached featured-products JSON blob.
func (s *Store) FeaturedProducts(ctx context.Context) ([]byte, bool, error) {
	data, err := s.redis.Get(ctx, featuredProductsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return data, true, nil
}

// SetFeaturedProducts replaces the featured-products blob. The entry has no
// TTL; write paths refresh it explicitly.
func (s *Store) SetFeaturedProducts(ctx context.Context, data []byte) error {
	if err := s.redis.Set(ctx, featuredProductsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time cache availability check.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}
