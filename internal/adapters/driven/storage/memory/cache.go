// Package memory provides an in-process extraction cache.
package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// DefaultMaxEntries bounds the cache when no limit is given.
const DefaultMaxEntries = 256

// Ensure Cache implements the interface.
var _ driven.ExtractionCache = (*Cache)(nil)

// Cache is a least-recently-used in-memory implementation of
// driven.ExtractionCache. Results are copied on the way in and out.
type Cache struct {
	mu      sync.Mutex
	max     int
	order   *list.List
	entries map[string]*list.Element
}

type entry struct {
	key    string
	result *domain.Extraction
}

// NewCache creates a cache holding at most maxEntries results.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		max:     maxEntries,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get retrieves a cached result.
func (c *Cache) Get(_ context.Context, key string) (*domain.Extraction, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).result.Clone(), true, nil
}

// Put stores a result, evicting the least recently used entry when full.
func (c *Cache) Put(_ context.Context, key string, result *domain.Extraction) error {
	if result == nil {
		return domain.ErrInvalidInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).result = result.Clone()
		c.order.MoveToFront(el)
		return nil
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, result: result.Clone()})
	for c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
	return nil
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
