package workers

import (
	"context"
	"sync/atomic"
)

// mockSweepable counts sweeps
type mockSweepable struct {
	sweeps  atomic.Int32
	evicted int
}

func (m *mockSweepable) Sweep(ctx context.Context) int {
	m.sweeps.Add(1)
	return m.evicted
}
