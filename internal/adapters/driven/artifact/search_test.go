package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBreadthFirst(t *testing.T) {
	t.Run("finds deeply nested file", func(t *testing.T) {
		root := t.TempDir()
		want := filepath.Join(root, "a", "b", "c", "d", "e", primary)
		writeFile(t, want, "x")

		got, ok := searchBreadthFirst(primary, root)

		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("returns shallowest match", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a", "a", "a", primary), "deep")
		want := filepath.Join(root, "z", primary)
		writeFile(t, want, "shallow")

		got, ok := searchBreadthFirst(primary, root)

		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("unreadable root degrades to empty branch", func(t *testing.T) {
		root := t.TempDir()
		want := filepath.Join(root, "x", primary)
		writeFile(t, want, "x")

		got, ok := searchBreadthFirst(primary, filepath.Join(root, "missing"), root)

		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("ignores directories with the target name", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, primary), 0755))

		_, ok := searchBreadthFirst(primary, root)

		assert.False(t, ok)
	})

	t.Run("no match", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a", "libfoo.so"), "x")

		_, ok := searchBreadthFirst(primary, root)

		assert.False(t, ok)
	})
}

func TestAscendUntil(t *testing.T) {
	start := filepath.Join("/", "target", "debug", "build", "doc_dig-1", "out")

	got, ok := ascendUntil(start, "build")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("/", "target", "debug", "build"), got)

	got, ok = ascendUntil(start, "out")
	assert.True(t, ok)
	assert.Equal(t, start, got)

	_, ok = ascendUntil(start, "missing")
	assert.False(t, ok)
}

func TestPrefixedSubdirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "extractous-1"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "extractous-2"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "other-1"), 0755))
	writeFile(t, filepath.Join(root, "extractous-file"), "not a dir")

	dirs := prefixedSubdirs(root, "extractous-")

	assert.Equal(t, []string{
		filepath.Join(root, "extractous-1"),
		filepath.Join(root, "extractous-2"),
	}, dirs)
	assert.Nil(t, prefixedSubdirs(filepath.Join(root, "missing"), "extractous-"))
}
