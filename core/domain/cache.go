// ABOUTME: CacheEntry domain model holds the last full first page for a cache key
// ABOUTME: Carries the write time so readers can judge staleness

package domain

import "time"

// CacheEntry is one cached first-page result
type CacheEntry struct {
	Key       string    `json:"key"`
	Payload   []Item    `json:"payload"`
	WrittenAt time.Time `json:"written_at"`

	// IsStale is computed on read against the caller's max age; it is not stored
	IsStale bool `json:"-"`
}

// Age returns how old the entry is at now
func (e CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.WrittenAt)
}
