package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v1"))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	// Set overwrites.
	require.NoError(t, store.Set(ctx, "k", "v2"))
	got, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStore_Remove(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Remove(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Removing an absent key is a no-op.
	assert.NoError(t, store.Remove(ctx, "k"))
}
