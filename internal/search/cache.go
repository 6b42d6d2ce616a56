package search

import (
	"sync"
	"time"

	"github.com/hyperjump/sitesearch/internal/models"
)

// IndexCache holds the most recently built index until it is invalidated.
// Concurrent builds may race to Set; the last writer wins.
type IndexCache struct {
	mu      sync.RWMutex
	index   models.Index
	builtAt time.Time
	valid   bool
}

// NewIndexCache returns an empty cache.
func NewIndexCache() *IndexCache {
	return &IndexCache{}
}

// Get returns the cached index and whether one is present.
func (c *IndexCache) Get() (models.Index, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index, c.valid
}

// Set stores idx as the current index.
func (c *IndexCache) Set(idx models.Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = idx
	c.builtAt = time.Now()
	c.valid = true
}

// Invalidate drops the cached index so the next lookup rebuilds it.
func (c *IndexCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = nil
	c.valid = false
}

// BuiltAt returns when the cached index was stored; zero when empty.
func (c *IndexCache) BuiltAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid {
		return time.Time{}
	}
	return c.builtAt
}
