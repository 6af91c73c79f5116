// ABOUTME: Periodic worker runs a background job on a fixed interval
// ABOUTME: Provides managed start and graceful stop for cache sweeps and session refreshes

package workers

import (
	"context"
	"sync"
	"time"

	"hackerhome-api/core/interfaces"
)

// JobFunc is one run of a periodic job
type JobFunc func(ctx context.Context)

// Periodic runs a job every interval until stopped
type Periodic struct {
	name     string
	interval time.Duration
	job      JobFunc
	logger   interfaces.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	running bool
}

// NewPeriodic creates a stopped periodic worker
func NewPeriodic(name string, interval time.Duration, job JobFunc, logger interfaces.Logger) *Periodic {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Periodic{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger,
	}
}

// Start launches the worker loop. Starting a running worker is a no-op.
func (p *Periodic) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if p.interval <= 0 {
		return ErrInvalidInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.running = true

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("Worker started", map[string]interface{}{
		"worker":   p.name,
		"interval": p.interval.String(),
	})
	return nil
}

// Stop cancels the loop and waits for a running job to return
func (p *Periodic) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.cancel()
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()

	p.logger.Info("Worker stopped", map[string]interface{}{
		"worker": p.name,
	})
	return nil
}

// Running reports whether the loop is active
func (p *Periodic) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Periodic) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.job(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Error definitions
var (
	ErrInvalidInterval = &WorkerError{Message: "worker interval must be positive"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
