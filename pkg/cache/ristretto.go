// Package cache provides a small TTL-backed cache used by ingestion adapters
// that must avoid hammering a rate-limited upstream API.
package cache

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// TTLCache wraps a ristretto.Cache with a fixed default TTL and a
// stale-on-error fallback: the last good value for a key is kept reachable
// even after ristretto evicts or expires it from the hot cache, so a caller
// can still serve something during an upstream outage.
type TTLCache struct {
	hot     *ristretto.Cache
	ttl     time.Duration
	staleMu sync.Mutex
	stale   map[string]any
}

// NewTTLCache builds a cache holding up to maxItems entries, each valid for
// ttl after being set.
func NewTTLCache(maxItems int64, ttl time.Duration) (*TTLCache, error) {
	hot, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &TTLCache{hot: hot, ttl: ttl, stale: make(map[string]any)}, nil
}

// Get returns the cached value for key and true if it is still within TTL.
func (c *TTLCache) Get(key string) (any, bool) {
	v, ok := c.hot.Get(key)
	if !ok {
		return nil, false
	}
	return v, true
}

// Set stores value under key with the cache's default TTL and also records
// it as the stale fallback.
func (c *TTLCache) Set(key string, value any) {
	c.hot.SetWithTTL(key, value, 1, c.ttl)
	c.hot.Wait()
	c.staleMu.Lock()
	c.stale[key] = value
	c.staleMu.Unlock()
}

// Stale returns the last value stored under key regardless of TTL, for use
// when a fresh fetch has failed. ok is false if nothing was ever stored.
func (c *TTLCache) Stale(key string) (any, bool) {
	c.staleMu.Lock()
	defer c.staleMu.Unlock()
	v, ok := c.stale[key]
	return v, ok
}
