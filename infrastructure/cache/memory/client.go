// ABOUTME: In-memory cache implementation backed by patrickmn/go-cache
// ABOUTME: Provides a process-local cache with TTL support and periodic janitor cleanup

package memory

import (
	"context"
	"strings"
	"time"

	coreerrors "hackerhome-api/core/errors"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired items are purged
const DefaultCleanupInterval = 10 * time.Minute

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &MemoryCache{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, found := c.items.Get(key)
	if !found {
		return nil, coreerrors.ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, coreerrors.ErrCacheMiss
	}

	// Return a copy of the value
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Set stores a value in the cache with the given TTL; 0 never expires
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, valueCopy, ttl)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.items.Delete(key)
	return nil
}

// Keys lists unexpired keys with the given prefix
func (c *MemoryCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var keys []string
	for k := range c.items.Items() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Stats returns cache statistics
func (c *MemoryCache) Stats() (map[string]interface{}, error) {
	return map[string]interface{}{
		"backend":       "memory",
		"total_entries": c.items.ItemCount(),
	}, nil
}

// Close releases the cache contents
func (c *MemoryCache) Close() error {
	c.items.Flush()
	return nil
}
