package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ClassificationCache = (*Cache)(nil)

// Cache is an in-memory classification cache. Entries live for the
// lifetime of the process, which suits one-shot CLI runs and tests; the
// SQLite cache covers persistence across runs.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]domain.ClassificationResult
}

// NewCache creates a new in-memory classification cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]domain.ClassificationResult),
	}
}

// Get returns the cached result for a key, or (nil, nil) on a miss.
func (c *Cache) Get(_ context.Context, key string) (*domain.ClassificationResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return &result, nil
}

// Set stores a result under a key, overwriting any existing entry.
func (c *Cache) Set(_ context.Context, key string, result domain.ClassificationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

// Clear removes all cached entries.
func (c *Cache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.ClassificationResult)
	return nil
}
