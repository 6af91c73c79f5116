// ABOUTME: Injectable time source for staleness checks, sweeps and throttling
// ABOUTME: Real uses the wall clock; Fake is advanced manually in tests

package clock

import (
	"sync"
	"time"
)

// Clock returns the current time
type Clock interface {
	Now() time.Time
}

// Real reads the system clock
type Real struct{}

// Now returns time.Now()
func (Real) Now() time.Time { return time.Now() }

// Fake is a manually driven clock, safe for concurrent use
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake creates a fake clock set to start
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake's current time
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake clock forward by d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Set moves the fake clock to t
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}
