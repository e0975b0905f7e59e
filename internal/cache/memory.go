package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process document memo backed by go-cache
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a decoded document from the cache
func (c *MemoryCache) Get(key string) (map[string]any, bool) {
	if val, found := c.cache.Get(key); found {
		doc, ok := val.(map[string]any)
		return doc, ok
	}
	return nil, false
}

// Set stores a decoded document with the given TTL. Zero uses the default TTL.
func (c *MemoryCache) Set(key string, doc map[string]any, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, doc, ttl)
}
