// ABOUTME: Cache sweeper evicts session cache entries older than the store horizon
// ABOUTME: Wraps a periodic worker around the cache store's Sweep

package workers

import (
	"context"
	"time"

	"hackerhome-api/core/interfaces"
)

// DefaultSweepInterval is how often the sweeper runs
const DefaultSweepInterval = time.Hour

// Sweepable is a cache that can evict old entries
type Sweepable interface {
	Sweep(ctx context.Context) int
}

// Sweeper periodically sweeps a cache
type Sweeper struct {
	*Periodic
	cache Sweepable
}

// NewSweeper creates a stopped sweeper; interval <= 0 means DefaultSweepInterval
func NewSweeper(cache Sweepable, interval time.Duration, logger interfaces.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	s := &Sweeper{cache: cache}
	s.Periodic = NewPeriodic("cache-sweeper", interval, s.SweepOnce, logger)
	return s
}

// SweepOnce runs a single sweep
func (s *Sweeper) SweepOnce(ctx context.Context) {
	evicted := s.cache.Sweep(ctx)
	s.logger.Debug("Cache sweep finished", map[string]interface{}{
		"evicted": evicted,
	})
}
