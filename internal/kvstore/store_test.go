package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeConformance runs the shared backend contract against one Store.
func storeConformance(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "render", "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, "render", "v1:blog:hello:en:abc", "<p>hi</p>"))
	require.NoError(t, store.Put(ctx, "render", "v1:blog:world:en:def", "<p>yo</p>"))
	require.NoError(t, store.Put(ctx, "render", "v1:docs:guide:en:ghi", "<p>doc</p>"))
	require.NoError(t, store.Put(ctx, "listing", "v1:blog:hello:en:abc", "other-namespace"))

	val, found, err := store.Get(ctx, "render", "v1:blog:hello:en:abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "<p>hi</p>", val)

	// Overwrite is idempotent.
	require.NoError(t, store.Put(ctx, "render", "v1:blog:hello:en:abc", "<p>hi2</p>"))
	val, found, err = store.Get(ctx, "render", "v1:blog:hello:en:abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "<p>hi2</p>", val)

	count, err := store.ClearPrefix(ctx, "render", "v1:blog:")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, found, err = store.Get(ctx, "render", "v1:blog:hello:en:abc")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.Get(ctx, "render", "v1:docs:guide:en:ghi")
	require.NoError(t, err)
	assert.True(t, found)

	// Other namespaces are untouched.
	_, found, err = store.Get(ctx, "listing", "v1:blog:hello:en:abc")
	require.NoError(t, err)
	assert.True(t, found)

	count, err = store.Clear(ctx, "render")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, found, err = store.Get(ctx, "render", "v1:docs:guide:en:ghi")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Delete(ctx, "listing", "v1:blog:hello:en:abc"))
	require.NoError(t, store.Delete(ctx, "listing", "already-gone"))

	count, err = store.Clear(ctx, "empty-namespace")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStore_Conformance(t *testing.T) {
	store := NewMemoryStore()
	defer func() { _ = store.Close() }()

	storeConformance(t, store)
}

func TestBoltStore_Conformance(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	storeConformance(t, store)
}

func TestBoltStore_AppendsExtension(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Put(context.Background(), "render", "k", "v"))
}
