package pokeapi

import (
	"context"
	"sync"
	"time"

	"github.com/typedex/dexgraph/metrics"
)

// DefaultSpriteTTL is how long cached sprite payloads stay fresh.
const DefaultSpriteTTL = time.Hour

// SpriteCache holds raw sprite payloads keyed by URL.
// Thread-safe for concurrent access.
type SpriteCache struct {
	mu      sync.RWMutex
	entries map[string]spriteEntry
	ttl     time.Duration
}

type spriteEntry struct {
	data      []byte
	fetchedAt time.Time
}

// NewSpriteCache creates a cache with the specified TTL.
func NewSpriteCache(ttl time.Duration) *SpriteCache {
	if ttl <= 0 {
		ttl = DefaultSpriteTTL
	}
	return &SpriteCache{
		entries: make(map[string]spriteEntry),
		ttl:     ttl,
	}
}

// Get returns the cached payload for url if it hasn't expired.
func (c *SpriteCache) Get(url string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[url]
	if !ok || time.Since(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.data, true
}

// Set stores a payload for url.
func (c *SpriteCache) Set(url string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[url] = spriteEntry{data: data, fetchedAt: time.Now()}
}

// Len reports the number of entries, expired ones included.
func (c *SpriteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every expired entry and reports how many were removed.
func (c *SpriteCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for url, e := range c.entries {
		if time.Since(e.fetchedAt) >= c.ttl {
			delete(c.entries, url)
			removed++
		}
	}
	return removed
}

// Sprite returns the image payload at url, serving repeated requests from
// the in-memory cache until the TTL lapses.
func (c *Client) Sprite(ctx context.Context, url string) ([]byte, error) {
	if data, ok := c.sprites.Get(url); ok {
		metrics.SpriteCacheHits.Inc()
		return data, nil
	}
	metrics.SpriteCacheMisses.Inc()

	data, err := c.fetchBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	c.sprites.Set(url, data)
	return data, nil
}
