package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"
)

// mapCache is an in-memory byte cache backend
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, coreerrors.ErrCacheMiss
	}
	return v, nil
}

func (m *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapCache) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *mapCache) Stats() (map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]interface{}{"backend": "map", "entries": len(m.data)}, nil
}

// stubAdapter serves pages of generated items and counts fetches per feed
type stubAdapter struct {
	mu      sync.Mutex
	fetches map[string][]int
	size    int
}

func newStubAdapter(size int) *stubAdapter {
	return &stubAdapter{fetches: make(map[string][]int), size: size}
}

func (s *stubAdapter) Fetcher(feed string) interfaces.Fetcher {
	return interfaces.FetcherFunc(func(ctx context.Context, page int) ([]domain.Item, error) {
		s.mu.Lock()
		s.fetches[feed] = append(s.fetches[feed], page)
		s.mu.Unlock()

		items := make([]domain.Item, 0, s.size)
		for i := 0; i < s.size; i++ {
			title := fmt.Sprintf("Rust item %d-%d", page, i)
			if i%2 == 0 {
				title = fmt.Sprintf("Go item %d-%d", page, i)
			}
			items = append(items, domain.Item{
				ID:     fmt.Sprintf("%s-p%d-%d", feed, page, i),
				Source: "stub",
				Title:  title,
				URL:    "https://stub.example",
			})
		}
		return items, nil
	})
}

func (s *stubAdapter) pages(feed string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.fetches[feed]...)
}
