// ABOUTME: Cache store keeps the last first-page result per cache key with its write time
// ABOUTME: Serves stale entries for stale-while-revalidate and sweeps entries past a long horizon

package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"
)

const (
	// DefaultHorizon is the age after which Sweep evicts an entry
	DefaultHorizon = 24 * time.Hour

	// DefaultMaxAge is the staleness threshold used when a caller passes 0
	DefaultMaxAge = 5 * time.Minute

	keyPrefix = "session:"
)

// record is the serialized form of an entry in the backend
type record struct {
	Payload   []domain.Item `json:"payload"`
	WrittenAt time.Time     `json:"written_at"`
}

// Store is the process-wide session cache. It is safe for concurrent use;
// writes to the same key are serialized and the last writer wins.
type Store struct {
	deps    interfaces.Dependencies
	horizon time.Duration
	locks   sync.Map // key -> *sync.Mutex
}

var _ interfaces.SessionCache = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithHorizon sets the sweep horizon
func WithHorizon(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.horizon = d
		}
	}
}

// New creates a cache store on top of deps.Cache
func New(deps interfaces.Dependencies, opts ...Option) *Store {
	s := &Store{
		deps:    deps,
		horizon: DefaultHorizon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Horizon returns the sweep horizon
func (s *Store) Horizon() time.Duration {
	return s.horizon
}

// Get returns the entry for key. The payload is returned even when the
// entry is older than maxAge; IsStale reports that case. Backend faults
// are logged and reported as a miss.
func (s *Store) Get(ctx context.Context, key string, maxAge time.Duration) (domain.CacheEntry, bool) {
	if key == "" || s.deps.Cache == nil {
		return domain.CacheEntry{}, false
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	rec, ok := s.read(ctx, key)
	if !ok {
		return domain.CacheEntry{}, false
	}

	now := s.deps.Now().Now()
	return domain.CacheEntry{
		Key:       key,
		Payload:   rec.Payload,
		WrittenAt: rec.WrittenAt,
		IsStale:   now.Sub(rec.WrittenAt) > maxAge,
	}, true
}

// Set overwrites the entry for key, stamped with the current time
func (s *Store) Set(ctx context.Context, key string, items []domain.Item) {
	if key == "" || s.deps.Cache == nil {
		return
	}
	if items == nil {
		items = []domain.Item{}
	}

	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	data, err := json.Marshal(record{
		Payload:   items,
		WrittenAt: s.deps.Now().Now(),
	})
	if err != nil {
		s.warn(&coreerrors.CacheWriteError{Key: key, Err: err})
		return
	}

	// The backend TTL mirrors the sweep horizon so expiring backends
	// drop entries on their own as well.
	if err := s.deps.Cache.Set(ctx, keyPrefix+key, data, s.horizon); err != nil {
		s.warn(&coreerrors.CacheWriteError{Key: key, Err: err})
	}
}

// Clear removes the given keys, or every entry when none are given
func (s *Store) Clear(ctx context.Context, keys ...string) {
	if s.deps.Cache == nil {
		return
	}
	if len(keys) == 0 {
		keys = s.Keys(ctx)
	}
	for _, key := range keys {
		mu := s.lockFor(key)
		mu.Lock()
		if err := s.deps.Cache.Delete(ctx, keyPrefix+key); err != nil {
			s.warn(&coreerrors.CacheWriteError{Key: key, Err: err})
		}
		mu.Unlock()
	}
}

// Keys lists the cache keys currently stored
func (s *Store) Keys(ctx context.Context) []string {
	if s.deps.Cache == nil {
		return nil
	}
	raw, err := s.deps.Cache.Keys(ctx, keyPrefix)
	if err != nil {
		s.warn(&coreerrors.CacheReadError{Key: keyPrefix + "*", Err: err})
		return nil
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, strings.TrimPrefix(k, keyPrefix))
	}
	return keys
}

// Len returns the number of stored entries
func (s *Store) Len(ctx context.Context) int {
	return len(s.Keys(ctx))
}

// Sweep evicts entries older than the horizon and unreadable entries.
// It returns the number of evicted keys.
func (s *Store) Sweep(ctx context.Context) int {
	if s.deps.Cache == nil {
		return 0
	}
	now := s.deps.Now().Now()
	evicted := 0
	for _, key := range s.Keys(ctx) {
		if ctx.Err() != nil {
			break
		}
		rec, ok := s.read(ctx, key)
		if ok && now.Sub(rec.WrittenAt) <= s.horizon {
			continue
		}
		mu := s.lockFor(key)
		mu.Lock()
		err := s.deps.Cache.Delete(ctx, keyPrefix+key)
		mu.Unlock()
		if err != nil {
			s.warn(&coreerrors.CacheWriteError{Key: key, Err: err})
			continue
		}
		evicted++
	}
	if evicted > 0 {
		s.deps.Log().Info("Cache sweep evicted entries", map[string]interface{}{
			"evicted": evicted,
			"horizon": s.horizon.String(),
		})
	}
	return evicted
}

func (s *Store) read(ctx context.Context, key string) (record, bool) {
	data, err := s.deps.Cache.Get(ctx, keyPrefix+key)
	if err != nil {
		if !errors.Is(err, coreerrors.ErrCacheMiss) {
			s.warn(&coreerrors.CacheReadError{Key: key, Err: err})
		}
		return record{}, false
	}
	if data == nil {
		return record{}, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.warn(&coreerrors.CacheReadError{Key: key, Err: err})
		return record{}, false
	}
	if rec.Payload == nil {
		rec.Payload = []domain.Item{}
	}
	return rec, true
}

func (s *Store) lockFor(key string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *Store) warn(err error) {
	s.deps.Log().Warn("Cache fault treated as miss", map[string]interface{}{
		"error": err.Error(),
	})
}
