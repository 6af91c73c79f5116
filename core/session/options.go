// ABOUTME: Session binding options and their defaults
// ABOUTME: Controls caching, pagination bounds, throttling and request timeouts

package session

import (
	"time"

	"hackerhome-api/core/interfaces"
	"hackerhome-api/pkg/clock"
)

const (
	DefaultCacheMaxAge    = 5 * time.Minute
	DefaultMaxPages       = 10
	DefaultMinInterval    = time.Second
	DefaultRequestTimeout = 15 * time.Second
)

// Options configures one session binding
type Options struct {
	// Source names the binding in logs and errors
	Source string

	// Enabled starts the session on construction
	Enabled bool

	// CacheKey selects the cache entry; empty disables caching
	CacheKey string

	// CacheMaxAge is the staleness threshold for cache reads
	CacheMaxAge time.Duration

	// MaxPages caps the number of pages; values below 1 mean DefaultMaxPages
	MaxPages int

	// PageSize is the expected page length, used with EndOnShortPage
	PageSize int

	// EndOnShortPage ends pagination on a page shorter than PageSize.
	// When false only an empty page ends pagination.
	EndOnShortPage bool

	// MinInterval drops LoadMore and Refresh calls made sooner than this
	// after the previous fetch started. Negative disables the check.
	MinInterval time.Duration

	// RequestTimeout bounds every fetch
	RequestTimeout time.Duration
}

// DefaultOptions returns the default binding options
func DefaultOptions() Options {
	return Options{
		CacheMaxAge:    DefaultCacheMaxAge,
		MaxPages:       DefaultMaxPages,
		MinInterval:    DefaultMinInterval,
		RequestTimeout: DefaultRequestTimeout,
	}
}

func (o Options) withDefaults() Options {
	if o.CacheMaxAge <= 0 {
		o.CacheMaxAge = DefaultCacheMaxAge
	}
	if o.MaxPages < 1 {
		o.MaxPages = DefaultMaxPages
	}
	if o.MinInterval == 0 {
		o.MinInterval = DefaultMinInterval
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.PageSize < 0 {
		o.PageSize = 0
	}
	return o
}

// hasMoreAfter decides whether another page is expected after loading
// page with n items
func (o Options) hasMoreAfter(page, n int) bool {
	if n == 0 {
		return false
	}
	if page >= o.MaxPages {
		return false
	}
	if o.EndOnShortPage && o.PageSize > 0 && n < o.PageSize {
		return false
	}
	return true
}

// Deps holds the collaborators of a controller
type Deps struct {
	// Cache is the shared first-page cache; nil disables caching
	Cache interfaces.SessionCache

	Logger interfaces.Logger

	Clock clock.Clock
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = interfaces.NopLogger{}
	}
	if d.Clock == nil {
		d.Clock = clock.Real{}
	}
	return d
}
