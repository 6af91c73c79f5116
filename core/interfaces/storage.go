// ABOUTME: Storage interfaces for first-page session caching
// ABOUTME: Defines the contract the session controller uses to read and write cached pages

package interfaces

import (
	"context"
	"time"

	"hackerhome-api/core/domain"
)

// SessionCache is the view of the cache store used by session controllers.
// Faults are handled inside implementations; a failed read is a miss.
type SessionCache interface {
	// Get returns the entry for key, marking it stale when older than maxAge.
	Get(ctx context.Context, key string, maxAge time.Duration) (domain.CacheEntry, bool)

	// Set overwrites the entry for key with the current time.
	Set(ctx context.Context, key string, items []domain.Item)
}
