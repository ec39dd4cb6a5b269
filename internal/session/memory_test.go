package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molisezx/luct-reporting/internal/models"
)

func TestMemoryRegistryLifecycle(t *testing.T) {
	registry := NewMemoryRegistry(0)
	ctx := context.Background()
	snapshot := models.UserInfo{ID: "u1", Username: "thabo", Role: models.RoleStudent}

	token, err := registry.Create(ctx, snapshot)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := registry.Lookup(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snapshot, *got)

	require.NoError(t, registry.Invalidate(ctx, token))

	got, err = registry.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryRegistryUnknownToken(t *testing.T) {
	registry := NewMemoryRegistry(0)

	got, err := registry.Lookup(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryRegistryInvalidateAbsentToken(t *testing.T) {
	registry := NewMemoryRegistry(0)
	assert.NoError(t, registry.Invalidate(context.Background(), "already-gone"))
}

func TestMemoryRegistryTTLExpiry(t *testing.T) {
	registry := NewMemoryRegistry(10 * time.Millisecond)
	ctx := context.Background()

	token, err := registry.Create(ctx, models.UserInfo{ID: "u1"})
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	got, err := registry.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryRegistryTokensAreUnique(t *testing.T) {
	registry := NewMemoryRegistry(0)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := registry.Create(ctx, models.UserInfo{ID: "u1"})
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}
