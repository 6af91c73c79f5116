// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

import "hackerhome-api/pkg/clock"

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache provides the byte-level cache backend
	Cache Cache

	// HTTPClient provides HTTP request functionality
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger

	// Clock provides the current time; nil means the wall clock
	Clock clock.Clock
}

// Log returns the configured logger or a no-op logger
func (d Dependencies) Log() Logger {
	if d.Logger == nil {
		return NopLogger{}
	}
	return d.Logger
}

// Now returns the configured clock or the wall clock
func (d Dependencies) Now() clock.Clock {
	if d.Clock == nil {
		return clock.Real{}
	}
	return d.Clock
}
