package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV_RoundTrip(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, KeyOfflineOrders)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, KeyOfflineOrders, []byte(`[{"id":"a"}]`)))
	b, ok, err := kv.Get(ctx, KeyOfflineOrders)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, string(b))

	require.NoError(t, kv.Delete(ctx, KeyOfflineOrders))
	_, ok, err = kv.Get(ctx, KeyOfflineOrders)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileKV_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, KeyConnectedPrinter, []byte("AA:BB")))

	kv2, err := NewFileKV(dir)
	require.NoError(t, err)
	b, ok, err := kv2.Get(ctx, KeyConnectedPrinter)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AA:BB", string(b))
}

func TestFileKV_DeleteMissingKeyIsNoOp(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, kv.Delete(context.Background(), "never_set"))
}

func TestFileKV_SanitizesKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "../escape/attempt", []byte("x")))
	b, ok, err := kv.Get(ctx, "../escape/attempt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "x", string(b))
}
