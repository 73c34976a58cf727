package oracle

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is an in-process LRU with a single expiry for all entries.
type MemoryCache struct {
	lru *expirable.LRU[string, []string]
}

// NewMemoryCache creates a cache holding up to size entries for ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, []string](size, nil, ttl)}
}

// Get implements ports.OracleCache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]string, bool, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), v...), true, nil
}

// Set implements ports.OracleCache. The per-call ttl is ignored; entries
// expire after the ttl given to NewMemoryCache.
func (c *MemoryCache) Set(_ context.Context, key string, matches []string, _ time.Duration) error {
	c.lru.Add(key, append([]string(nil), matches...))
	return nil
}

// Len reports the number of live entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
