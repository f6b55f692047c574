package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry keeps revoked tokens in a process-local set. Suitable for
// tests and single-instance deployments; expired entries are dropped lazily
// on lookup rather than swept.
type MemoryRegistry struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry constructs an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke inserts the token. A non-positive ttl keeps the entry for the
// process lifetime.
func (r *MemoryRegistry) Revoke(_ context.Context, token string, ttl time.Duration) error {
	var deadline time.Time
	if ttl > 0 {
		deadline = r.now().Add(ttl)
	}

	r.mu.Lock()
	r.revoked[token] = deadline
	r.mu.Unlock()
	return nil
}

// IsRevoked reports membership, treating expired entries as absent.
func (r *MemoryRegistry) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	deadline, ok := r.revoked[token]
	r.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !deadline.IsZero() && r.now().After(deadline) {
		r.mu.Lock()
		delete(r.revoked, token)
		r.mu.Unlock()
		return false, nil
	}
	return true, nil
}
