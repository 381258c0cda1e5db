package auth

import (
	"context"
	"time"

	"github.com/ahsanfayaz52/sharednotes/internal/cache"
)

// Revoker remembers logged-out token ids until they would have expired.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NoopRevoker is used when Redis is not configured; logout then only
// clears the cookie.
type NoopRevoker struct{}

func (NoopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }
func (NoopRevoker) IsRevoked(context.Context, string) (bool, error)     { return false, nil }

type RedisRevoker struct {
	cache *cache.RedisCache
}

func NewRedisRevoker(c *cache.RedisCache) *RedisRevoker {
	return &RedisRevoker{cache: c}
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return r.cache.Set(ctx, blacklistKey(jti), "1", ttl)
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return r.cache.Exists(ctx, blacklistKey(jti))
}
