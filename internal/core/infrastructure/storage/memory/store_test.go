package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memoryconfig "github.com/weisyn/mintregistry/internal/config/storage/memory"
	logimpl "github.com/weisyn/mintregistry/internal/core/infrastructure/log"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(memoryconfig.New().GetOptions(), logimpl.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMemoryStoreOperations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "token/1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "token/1", []byte("owner")))
	value, found, err := store.Get(ctx, "token/1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("owner"), value)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, store.Delete(ctx, "token/1"))
	require.NoError(t, store.Delete(ctx, "token/1"))
	_, found, err = store.Get(ctx, "token/1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreClosed(t *testing.T) {
	store, err := New(memoryconfig.New().GetOptions(), logimpl.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, _, err = store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Set(context.Background(), "k", []byte("v")), ErrStoreClosed)
}
