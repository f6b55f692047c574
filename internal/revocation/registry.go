// Package revocation tracks refresh tokens that were invalidated before
// their natural expiry. Entries carry a TTL equal to the token's remaining
// lifetime, after which keeping them would be pointless.
package revocation

import (
	"context"
	"time"
)

// Registry is a set of revoked token strings. Revoke is idempotent; both
// operations are safe for concurrent use.
type Registry interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
