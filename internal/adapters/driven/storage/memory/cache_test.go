package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

func TestNewCache(t *testing.T) {
	assert.Equal(t, DefaultMaxEntries, NewCache(0).max)
	assert.Equal(t, 3, NewCache(3).max)
}

func TestCache_GetPut(t *testing.T) {
	c := NewCache(4)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	meta := domain.Metadata{}
	meta.Add("Content-Type", "text/plain")
	require.NoError(t, c.Put(ctx, "k", &domain.Extraction{Text: "hello", Metadata: meta}))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "text/plain", got.Metadata.Get("Content-Type"))
}

func TestCache_ReturnsCopies(t *testing.T) {
	c := NewCache(4)
	ctx := context.Background()

	original := &domain.Extraction{Text: "t", Metadata: domain.Metadata{}}
	require.NoError(t, c.Put(ctx, "k", original))
	original.Metadata.Add("mutated", "before-get")

	got, _, err := c.Get(ctx, "k")
	require.NoError(t, err)
	got.Metadata.Add("resourceName", "a.txt")

	again, _, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, again.Metadata)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "a", &domain.Extraction{Text: "a"}))
	require.NoError(t, c.Put(ctx, "b", &domain.Extraction{Text: "b"}))

	_, ok, _ := c.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, c.Put(ctx, "c", &domain.Extraction{Text: "c"}))
	assert.Equal(t, 2, c.Len())

	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok, "b was least recently used")
	_, ok, _ = c.Get(ctx, "a")
	assert.True(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestCache_PutReplaces(t *testing.T) {
	c := NewCache(2)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", &domain.Extraction{Text: "one"}))
	require.NoError(t, c.Put(ctx, "k", &domain.Extraction{Text: "two"}))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", got.Text)
	assert.Equal(t, 1, c.Len())
}

func TestCache_PutNil(t *testing.T) {
	err := NewCache(1).Put(context.Background(), "k", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache(16)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := fmt.Sprintf("k%d", (i+j)%20)
				_ = c.Put(ctx, key, &domain.Extraction{Text: key})
				_, _, _ = c.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}
