package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hackerhome-api/core/domain"
	"hackerhome-api/pkg/clock"
)

// mockFetcher records requested pages and delegates to fetchFunc
type mockFetcher struct {
	mu        sync.Mutex
	calls     []int
	fetchFunc func(ctx context.Context, page int) ([]domain.Item, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, page int) ([]domain.Item, error) {
	m.mu.Lock()
	m.calls = append(m.calls, page)
	m.mu.Unlock()
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, page)
	}
	return pageItems("x", page, 10), nil
}

func (m *mockFetcher) Calls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.calls))
	copy(out, m.calls)
	return out
}

// gate blocks fetches for selected pages until released
type gate struct {
	release chan struct{}
	started chan int
}

func newGate() *gate {
	return &gate{
		release: make(chan struct{}),
		started: make(chan int, 16),
	}
}

// wait blocks until released or ctx is done
func (g *gate) wait(ctx context.Context, page int) error {
	g.started <- page
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gate) open() { close(g.release) }

// mockSessionCache is an in-memory SessionCache driven by a clock
type mockSessionCache struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]domain.CacheEntry
	sets    int
}

func newMockSessionCache(clk clock.Clock) *mockSessionCache {
	return &mockSessionCache{clock: clk, entries: make(map[string]domain.CacheEntry)}
}

func (m *mockSessionCache) Get(ctx context.Context, key string, maxAge time.Duration) (domain.CacheEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return domain.CacheEntry{}, false
	}
	e.Payload = domain.CloneItems(e.Payload)
	e.IsStale = m.clock.Now().Sub(e.WrittenAt) > maxAge
	return e, true
}

func (m *mockSessionCache) Set(ctx context.Context, key string, items []domain.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.entries[key] = domain.CacheEntry{Key: key, Payload: domain.CloneItems(items), WrittenAt: m.clock.Now()}
}

func (m *mockSessionCache) put(key string, items []domain.Item, writtenAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = domain.CacheEntry{Key: key, Payload: items, WrittenAt: writtenAt}
}

func (m *mockSessionCache) entry(key string) (domain.CacheEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok
}

func (m *mockSessionCache) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func pageItems(tag string, page, n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = domain.Item{
			ID:    fmt.Sprintf("%s-p%d-%d", tag, page, i),
			Title: fmt.Sprintf("%s story %d.%d", tag, page, i),
		}
	}
	return items
}
