package revocation_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ebatarlar/personal-finance/internal/revocation"
)

func TestMemoryRegistryRevokeAndLookup(t *testing.T) {
	ctx := context.Background()
	registry := revocation.NewMemoryRegistry()

	revoked, err := registry.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, registry.Revoke(ctx, "token-a", time.Hour))

	revoked, err = registry.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = registry.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestMemoryRegistryRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	registry := revocation.NewMemoryRegistry()

	require.NoError(t, registry.Revoke(ctx, "token-a", time.Hour))
	require.NoError(t, registry.Revoke(ctx, "token-a", time.Hour))

	revoked, err := registry.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestMemoryRegistryEntriesExpire(t *testing.T) {
	ctx := context.Background()
	registry := revocation.NewMemoryRegistry()

	require.NoError(t, registry.Revoke(ctx, "short-lived", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := registry.IsRevoked(ctx, "short-lived")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestMemoryRegistryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	registry := revocation.NewMemoryRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		token := fmt.Sprintf("token-%d", i)
		go func() {
			defer wg.Done()
			_ = registry.Revoke(ctx, token, time.Hour)
		}()
		go func() {
			defer wg.Done()
			_, _ = registry.IsRevoked(ctx, token)
		}()
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		revoked, err := registry.IsRevoked(ctx, fmt.Sprintf("token-%d", i))
		require.NoError(t, err)
		require.True(t, revoked)
	}
}
