// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the interface for byte-level cache backends.
// Implementations can be Redis, SQLite, in-memory, or any other storage.
// The session cache store serializes its entries on top of this contract.
//
// Example usage:
//
//	cache := someCache // implements Cache interface
//
//	// Store a value
//	err := cache.Set(ctx, "session:hn-top", entryJSON, 24*time.Hour)
//
//	// Retrieve a value
//	data, err := cache.Get(ctx, "session:hn-top")
//	if err != nil {
//		// handle error or cache miss
//	}
//
//	// List keys under a prefix
//	keys, err := cache.Keys(ctx, "session:")
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached data as []byte or an error if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Keys lists the live keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
