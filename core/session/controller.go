// ABOUTME: Session controller manages fetch, cache, pagination and failover for one source binding
// ABOUTME: Runs one fetch at a time and drops results that arrive after the binding changed

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"
)

type fetchKind int

const (
	fetchInitial fetchKind = iota
	fetchRefresh
	fetchMore
)

func (k fetchKind) String() string {
	switch k {
	case fetchInitial:
		return "initial"
	case fetchRefresh:
		return "refresh"
	case fetchMore:
		return "more"
	}
	return "unknown"
}

// Controller owns the state of one (fetcher, cache key) binding.
// All methods are safe for concurrent use.
type Controller struct {
	deps Deps

	mu      sync.Mutex
	fetcher interfaces.Fetcher
	opts    Options
	state   Snapshot

	// gen is bumped on every enable and disable; a fetch only commits
	// when its generation is still current
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc

	inflight  bool
	done      chan struct{}
	lastStart time.Time

	subs    map[int]func(Snapshot)
	nextSub int

	// version orders published snapshots; notifyMu serializes delivery
	version   uint64
	notifyMu  sync.Mutex
	delivered uint64
}

// New creates a controller. When opts.Enabled is set the first page is
// requested immediately.
func New(fetcher interfaces.Fetcher, opts Options, deps Deps) *Controller {
	c := &Controller{
		deps:    deps.withDefaults(),
		fetcher: fetcher,
		opts:    opts.withDefaults(),
		subs:    make(map[int]func(Snapshot)),
	}
	if c.opts.Enabled {
		c.Enable()
	}
	return c
}

// Options returns the controller's effective options
func (c *Controller) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Enable binds the session and loads page 1, consulting the cache first.
// It is a no-op when already enabled.
func (c *Controller) Enable() {
	c.mu.Lock()
	if c.ctx != nil {
		c.mu.Unlock()
		return
	}
	c.enableLocked()
	c.unlockAndNotify()
}

// Disable cancels any in-flight fetch and resets to the inert state.
// Results of the cancelled fetch are discarded.
func (c *Controller) Disable() {
	c.mu.Lock()
	if c.ctx == nil {
		c.mu.Unlock()
		return
	}
	c.disableLocked()
	c.unlockAndNotify()
}

// Rebind switches the fetcher and cache key. An enabled session is torn
// down and started again against the new binding.
func (c *Controller) Rebind(fetcher interfaces.Fetcher, cacheKey string) {
	c.mu.Lock()
	wasEnabled := c.ctx != nil
	if wasEnabled {
		c.disableLocked()
	}
	c.fetcher = fetcher
	c.opts.CacheKey = cacheKey
	if wasEnabled {
		c.enableLocked()
	}
	c.unlockAndNotify()
}

// LoadMore fetches the next page. It reports whether a fetch was started;
// calls are dropped while disabled, while any fetch is in flight, when no
// more pages are expected, or within MinInterval of the previous fetch.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	if c.ctx == nil || c.inflight || !c.state.HasMore || c.throttledLocked() {
		c.mu.Unlock()
		return false
	}
	page := c.state.Page + 1
	c.state.Phase = PhaseLoadingMore
	c.startLocked(fetchMore, page)
	c.unlockAndNotify()
	return true
}

// Refresh fetches page 1 from the network while current items stay
// visible. It follows the same dropping rules as LoadMore except HasMore.
func (c *Controller) Refresh() bool {
	c.mu.Lock()
	if c.ctx == nil || c.inflight || c.throttledLocked() {
		c.mu.Unlock()
		return false
	}
	if len(c.state.Items) == 0 {
		c.state.Phase = PhaseLoading
	} else {
		c.state.Refreshing = true
	}
	c.startLocked(fetchRefresh, 1)
	c.unlockAndNotify()
	return true
}

// Wait blocks until no fetch is in flight or ctx is done
func (c *Controller) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		if !c.inflight {
			c.mu.Unlock()
			return nil
		}
		done := c.done
		c.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Subscribe registers fn to receive new snapshots. Deliveries are in
// commit order but may skip intermediate states. fn must not call back
// into the controller's mutating methods synchronously. The returned
// function removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Controller) enableLocked() {
	c.opts.Enabled = true
	c.gen++
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.state = Snapshot{Phase: PhaseLoading}

	if entry, ok := c.readCacheLocked(); ok {
		c.state = Snapshot{
			Phase:     PhaseSettled,
			Items:     entry.Payload,
			Page:      1,
			HasMore:   c.opts.hasMoreAfter(1, len(entry.Payload)),
			FromCache: true,
			UpdatedAt: c.deps.Clock.Now(),
		}
		if !entry.IsStale {
			c.deps.Logger.Debug("Session served from cache", c.fields(map[string]interface{}{
				"items": len(entry.Payload),
			}))
			return
		}
		c.state.Refreshing = true
		c.deps.Logger.Debug("Session serving stale cache while revalidating", c.fields(map[string]interface{}{
			"items": len(entry.Payload),
			"age":   entry.Age(c.deps.Clock.Now()).String(),
		}))
	}

	c.startLocked(fetchInitial, 1)
}

func (c *Controller) disableLocked() {
	c.cancel()
	c.gen++
	c.ctx, c.cancel = nil, nil
	c.opts.Enabled = false
	c.state = Snapshot{Phase: PhaseDisabled, UpdatedAt: c.deps.Clock.Now()}
	c.finishLocked()
	c.deps.Logger.Debug("Session disabled", c.fields(nil))
}

func (c *Controller) throttledLocked() bool {
	if c.opts.MinInterval <= 0 || c.lastStart.IsZero() {
		return false
	}
	return c.deps.Clock.Now().Sub(c.lastStart) < c.opts.MinInterval
}

func (c *Controller) startLocked(kind fetchKind, page int) {
	c.inflight = true
	c.done = make(chan struct{})
	c.lastStart = c.deps.Clock.Now()

	ctx, cancel := context.WithTimeout(c.ctx, c.opts.RequestTimeout)
	go c.run(ctx, cancel, c.gen, c.fetcher, kind, page)
}

// finishLocked marks the in-flight fetch as complete and releases waiters
func (c *Controller) finishLocked() {
	if !c.inflight {
		return
	}
	c.inflight = false
	close(c.done)
}

type fetchResult struct {
	items []domain.Item
	err   error
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, gen uint64, fetcher interfaces.Fetcher, kind fetchKind, page int) {
	defer cancel()

	ch := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- fetchResult{err: fmt.Errorf("fetcher panic: %v", r)}
			}
		}()
		items, err := fetcher.Fetch(ctx, page)
		ch <- fetchResult{items: items, err: err}
	}()

	var res fetchResult
	select {
	case res = <-ch:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	if res.err != nil {
		res.err = c.classify(res.err, page)
	}

	// Page 1 results go to the shared cache before they are published so
	// that readers released by Wait observe the new entry.
	if res.err == nil && page == 1 && c.current(gen) {
		c.writeCache(res.items)
	}

	c.mu.Lock()
	if gen != c.gen {
		c.deps.Logger.Debug("Discarding result of superseded fetch", c.fields(map[string]interface{}{
			"page": page,
			"kind": kind.String(),
		}))
		c.mu.Unlock()
		return
	}
	if res.err != nil {
		c.failLocked(kind, page, res.err)
	} else {
		c.settleLocked(kind, page, res.items)
	}
	c.finishLocked()
	c.unlockAndNotify()
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

func (c *Controller) settleLocked(kind fetchKind, page int, items []domain.Item) {
	if items == nil {
		items = []domain.Item{}
	}

	next := Snapshot{
		Phase:     PhaseSettled,
		Page:      page,
		HasMore:   c.opts.hasMoreAfter(page, len(items)),
		UpdatedAt: c.deps.Clock.Now(),
	}
	if kind == fetchMore {
		merged := make([]domain.Item, 0, len(c.state.Items)+len(items))
		merged = append(merged, c.state.Items...)
		next.Items = append(merged, items...)
		next.FromCache = c.state.FromCache
	} else {
		next.Items = items
	}
	c.state = next

	c.deps.Logger.Debug("Session settled", c.fields(map[string]interface{}{
		"page":     page,
		"kind":     kind.String(),
		"fetched":  len(items),
		"total":    len(next.Items),
		"has_more": next.HasMore,
	}))
}

func (c *Controller) failLocked(kind fetchKind, page int, err error) {
	c.deps.Logger.Warn("Session fetch failed", c.fields(map[string]interface{}{
		"page":  page,
		"kind":  kind.String(),
		"error": err.Error(),
	}))

	next := c.state
	next.Phase = PhaseFailed
	next.Err = err
	next.Refreshing = false
	next.UpdatedAt = c.deps.Clock.Now()

	if kind == fetchMore {
		next.HasMore = false
		c.state = next
		return
	}

	// Page 1: keep what is on screen, else fall back to the cache, else empty.
	if len(next.Items) == 0 {
		if entry, ok := c.readCacheLocked(); ok {
			next.Items = entry.Payload
			next.Page = 1
			next.HasMore = c.opts.hasMoreAfter(1, len(entry.Payload))
			next.FromCache = true
		} else {
			next.Items = []domain.Item{}
			next.Page = 0
			next.HasMore = false
			next.FromCache = false
		}
	}
	c.state = next
}

// classify maps arbitrary fetch errors onto the fetch error taxonomy
func (c *Controller) classify(err error, page int) error {
	if coreerrors.IsFetchFailed(err) || coreerrors.IsInvalidFormat(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("request timed out after %s: %w", c.opts.RequestTimeout, err)
	}
	return &coreerrors.FetchFailedError{Source: c.opts.Source, Page: page, Err: err}
}

func (c *Controller) readCacheLocked() (domain.CacheEntry, bool) {
	if c.deps.Cache == nil || c.opts.CacheKey == "" {
		return domain.CacheEntry{}, false
	}
	return c.deps.Cache.Get(context.Background(), c.opts.CacheKey, c.opts.CacheMaxAge)
}

func (c *Controller) writeCache(items []domain.Item) {
	c.mu.Lock()
	key := c.opts.CacheKey
	c.mu.Unlock()
	if c.deps.Cache == nil || key == "" {
		return
	}
	c.deps.Cache.Set(context.Background(), key, items)
}

func (c *Controller) snapshotLocked() Snapshot {
	s := c.state
	s.Items = domain.CloneItems(s.Items)
	return s
}

// unlockAndNotify releases c.mu and delivers the new state to subscribers
func (c *Controller) unlockAndNotify() {
	c.version++
	v := c.version
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if v <= c.delivered {
		return
	}
	c.delivered = v
	for _, fn := range subs {
		fn(snap)
	}
}

func (c *Controller) fields(extra map[string]interface{}) map[string]interface{} {
	f := map[string]interface{}{
		"source":    c.opts.Source,
		"cache_key": c.opts.CacheKey,
	}
	for k, v := range extra {
		f[k] = v
	}
	return f
}
