package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapter_SetGet(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 0))

	got, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	exists, err := adapter.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryAdapter_MissingKey(t *testing.T) {
	adapter := NewMemoryAdapter()

	_, err := adapter.Get(context.Background(), "missing")
	assert.Error(t, err)

	exists, err := adapter.Exists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryAdapter_Delete(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, adapter.Delete(ctx, "k"))

	_, err := adapter.Get(ctx, "k")
	assert.Error(t, err)
}

func TestMemoryAdapter_OverwriteSameKey(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("old"), 0))
	require.NoError(t, adapter.Set(ctx, "k", []byte("new"), 0))

	got, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}
