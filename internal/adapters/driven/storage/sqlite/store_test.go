package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func TestNewStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "extractions.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "k", &domain.Extraction{Text: "persisted"}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", got.Text)

	var versions int
	require.NoError(t, reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestStore_GetPut(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		got, ok, err := store.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("round trip keeps multi-valued metadata", func(t *testing.T) {
		meta := domain.Metadata{}
		meta.Add("Content-Type", "text/plain")
		meta.Add("dc:creator", "Ada")
		meta.Add("dc:creator", "Grace")

		require.NoError(t, store.Put(ctx, "doc", &domain.Extraction{Text: "hello", Metadata: meta}))

		got, ok, err := store.Get(ctx, "doc")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "hello", got.Text)
		assert.Equal(t, []string{"Ada", "Grace"}, got.Metadata["dc:creator"])
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "doc", &domain.Extraction{Text: "updated"}))

		got, ok, err := store.Get(ctx, "doc")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "updated", got.Text)
		assert.Empty(t, got.Metadata)
	})

	t.Run("nil extraction", func(t *testing.T) {
		err := store.Put(ctx, "nil", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestStore_Prune(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base }
	require.NoError(t, store.Put(ctx, "old", &domain.Extraction{Text: "old"}))
	require.NoError(t, store.Put(ctx, "used", &domain.Extraction{Text: "used"}))

	store.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, store.Put(ctx, "new", &domain.Extraction{Text: "new"}))
	_, ok, err := store.Get(ctx, "used")
	require.NoError(t, err)
	require.True(t, ok)

	removed, err := store.Prune(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM extractions").Scan(&n))
	assert.Equal(t, 2, n)

	_, ok, err = store.Get(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)
}
