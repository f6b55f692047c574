package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// RedisRegistry shares the revocation set across instances. Redis expires
// each key with the token's remaining lifetime, so the set is self-cleaning.
type RedisRegistry struct {
	client redis.UniversalClient
}

var _ Registry = (*RedisRegistry)(nil)

// NewRedisRegistry constructs a Redis-backed registry.
func NewRedisRegistry(client redis.UniversalClient) *RedisRegistry {
	return &RedisRegistry{client: client}
}

// Revoke stores the token with the given TTL. A non-positive ttl stores it
// without expiry.
func (r *RedisRegistry) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+token, "1", ttl).Err(); err != nil {
		return fmt.Errorf("persist revocation: %w", err)
	}
	return nil
}

// IsRevoked reports membership.
func (r *RedisRegistry) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("lookup revocation: %w", err)
	}
	return n > 0, nil
}
