// ABOUTME: Source domain model describes a content source and its feed variants
// ABOUTME: Provides validation and cache key derivation for source bindings

package domain

import (
	"errors"
	"fmt"
)

// SourceInfo describes a content source offered by the dashboard
type SourceInfo struct {
	// ID is the registry id (e.g. "hackernews")
	ID string

	// Name is the display name (e.g. "Hacker News")
	Name string

	// KeyPrefix is the short prefix for cache keys (e.g. "hn")
	KeyPrefix string

	// Feeds lists the feed variants, first one is the default
	Feeds []string
}

// Validate checks if the source has valid required fields
func (s *SourceInfo) Validate() error {
	if s.ID == "" {
		return errors.New("source id cannot be empty")
	}

	if s.KeyPrefix == "" {
		return errors.New("source key prefix cannot be empty")
	}

	if len(s.Feeds) == 0 {
		return errors.New("source must declare at least one feed")
	}

	return nil
}

// DefaultFeed returns the first feed variant
func (s *SourceInfo) DefaultFeed() string {
	if len(s.Feeds) == 0 {
		return ""
	}
	return s.Feeds[0]
}

// HasFeed reports whether feed is one of the source's variants
func (s *SourceInfo) HasFeed(feed string) bool {
	for _, f := range s.Feeds {
		if f == feed {
			return true
		}
	}
	return false
}

// CacheKey returns the cache key for a feed variant, e.g. "hn-top"
func (s *SourceInfo) CacheKey(feed string) string {
	return fmt.Sprintf("%s-%s", s.KeyPrefix, feed)
}
