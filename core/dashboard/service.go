// ABOUTME: Dashboard service owns one session controller per enabled (source, feed) binding
// ABOUTME: Applies feature flags and per-source settings, filters snapshots and refreshes in the background

package dashboard

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"
	"hackerhome-api/core/search"
	"hackerhome-api/core/session"
	"hackerhome-api/core/sources"
	"hackerhome-api/core/workers"
	"hackerhome-api/pkg/config"
	"hackerhome-api/pkg/featureflags"
)

// ErrClosed is returned for session access after Close
var ErrClosed = errors.New("dashboard: service closed")

// Store is the cache store view the dashboard needs
type Store interface {
	interfaces.SessionCache
	Clear(ctx context.Context, keys ...string)
	Keys(ctx context.Context) []string
}

// statsProvider is implemented by cache backends that report statistics
type statsProvider interface {
	Stats() (map[string]interface{}, error)
}

// Options configures the dashboard
type Options struct {
	// Session holds the defaults for every binding
	Session session.Options

	// Settings holds per-source overrides keyed by source id
	Settings map[string]config.SourceSettings

	// RefreshInterval is the background refresh period; 0 disables it
	RefreshInterval time.Duration
}

// SourceStatus is a registered source with its enabled state
type SourceStatus struct {
	domain.SourceInfo
	Enabled bool
}

// View is a session snapshot after search filtering
type View struct {
	session.Snapshot

	Source   domain.SourceInfo
	Feed     string
	CacheKey string
	Query    string
	Fields   []string

	// Total is the number of items before filtering
	Total int
}

// CacheStats summarizes the cache store and its backend
type CacheStats struct {
	Entries  int
	Keys     []string
	Sessions int
	Backend  map[string]interface{}
}

// Service is safe for concurrent use
type Service struct {
	registry *sources.Registry
	store    Store
	flags    featureflags.Manager
	deps     interfaces.Dependencies
	opts     Options

	mu        sync.Mutex
	sessions  map[string]*entry // cache key -> session
	refresher *workers.Periodic
	closed    bool
}

type entry struct {
	binding sources.Binding
	ctrl    *session.Controller
}

// New creates a dashboard. Enabled flags from Settings are applied to the
// flag manager so it stays the single source of truth.
func New(registry *sources.Registry, store Store, flags featureflags.Manager, deps interfaces.Dependencies, opts Options) *Service {
	if flags == nil {
		flags = featureflags.NewStaticManager(featureflags.Defaults())
	}
	for id, settings := range opts.Settings {
		if settings.Enabled == nil {
			continue
		}
		if info, ok := registry.Get(id); ok {
			flags.SetEnabled(featureflags.SourceFlag(info.ID), *settings.Enabled)
		}
	}

	s := &Service{
		registry: registry,
		store:    store,
		flags:    flags,
		deps:     deps,
		opts:     opts,
		sessions: make(map[string]*entry),
	}
	if opts.RefreshInterval > 0 {
		s.refresher = workers.NewPeriodic("session-refresh", opts.RefreshInterval, s.RefreshAll, deps.Log())
	}
	return s
}

// Start launches the background refresh, if configured
func (s *Service) Start() error {
	if s.refresher == nil {
		return nil
	}
	return s.refresher.Start()
}

// Close stops the background refresh and disables every session
func (s *Service) Close() error {
	s.mu.Lock()
	s.closed = true
	entries := s.entriesLocked()
	s.mu.Unlock()

	var err error
	if s.refresher != nil && s.refresher.Running() {
		err = s.refresher.Stop()
	}
	for _, e := range entries {
		e.ctrl.Disable()
	}
	return err
}

// Sources lists every registered source with its enabled state
func (s *Service) Sources(ctx context.Context) []SourceStatus {
	infos := s.registry.List()
	out := make([]SourceStatus, 0, len(infos))
	for _, info := range infos {
		out = append(out, SourceStatus{SourceInfo: info, Enabled: s.enabled(ctx, info.ID)})
	}
	return out
}

func (s *Service) enabled(ctx context.Context, sourceID string) bool {
	return s.flags.IsEnabled(ctx, featureflags.SourceFlag(sourceID))
}

// session returns the controller for a binding, creating it on first use
func (s *Service) session(ctx context.Context, sourceID, feed string) (*entry, error) {
	if feed == "" {
		feed = s.defaultFeed(sourceID)
	}
	binding, err := s.registry.Bind(sourceID, feed)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if e, ok := s.sessions[binding.CacheKey]; ok {
		return e, nil
	}

	opts := s.optionsFor(ctx, binding)
	deps := session.Deps{Logger: s.deps.Logger, Clock: s.deps.Clock}
	if s.store != nil && s.flags.IsEnabled(ctx, featureflags.CacheEnabled) {
		deps.Cache = s.store
	}

	e := &entry{binding: binding, ctrl: session.New(binding.Fetcher, opts, deps)}
	s.sessions[binding.CacheKey] = e

	s.deps.Log().Debug("Session created", map[string]interface{}{
		"source":    binding.Source.ID,
		"feed":      binding.Feed,
		"cache_key": binding.CacheKey,
		"enabled":   opts.Enabled,
	})
	return e, nil
}

// defaultFeed returns the configured feed override for a source, if any
func (s *Service) defaultFeed(sourceID string) string {
	info, ok := s.registry.Get(sourceID)
	if !ok {
		return ""
	}
	return s.opts.Settings[info.ID].Feed
}

func (s *Service) optionsFor(ctx context.Context, binding sources.Binding) session.Options {
	opts := s.opts.Session
	opts.Source = binding.Source.ID
	opts.CacheKey = binding.CacheKey
	opts.Enabled = s.enabled(ctx, binding.Source.ID)

	settings, ok := s.opts.Settings[binding.Source.ID]
	if !ok {
		return opts
	}
	if settings.MaxPages > 0 {
		opts.MaxPages = settings.MaxPages
	}
	if settings.PageSize > 0 {
		opts.PageSize = settings.PageSize
	}
	if settings.EndOnShortPage != nil {
		opts.EndOnShortPage = *settings.EndOnShortPage
	}
	if settings.CacheMaxAge > 0 {
		opts.CacheMaxAge = settings.CacheMaxAge
	}
	return opts
}

// Items returns the filtered snapshot of a binding. With wait set it
// blocks until the in-flight fetch, if any, has finished or ctx is done.
func (s *Service) Items(ctx context.Context, sourceID, feed, query string, fields []string, wait bool) (View, error) {
	query, err := search.NormalizeQuery(query)
	if err != nil {
		return View{}, err
	}
	if query != "" && !s.flags.IsEnabled(ctx, featureflags.SearchEnabled) {
		return View{}, &coreerrors.ValidationError{Field: "q", Message: "search is disabled"}
	}
	if len(fields) == 0 {
		fields = search.DefaultFields
	}

	e, err := s.session(ctx, sourceID, feed)
	if err != nil {
		return View{}, err
	}

	if wait {
		if err := e.ctrl.Wait(ctx); err != nil {
			return View{}, err
		}
	}

	snap := e.ctrl.Snapshot()
	view := View{
		Snapshot: snap,
		Source:   e.binding.Source,
		Feed:     e.binding.Feed,
		CacheKey: e.binding.CacheKey,
		Query:    query,
		Fields:   fields,
		Total:    len(snap.Items),
	}
	view.Items = search.Filter(snap.Items, fields, query)
	return view, nil
}

// LoadMore requests the next page. It reports false when the request was
// dropped: disabled, busy, throttled or out of pages.
func (s *Service) LoadMore(ctx context.Context, sourceID, feed string) (bool, error) {
	e, err := s.session(ctx, sourceID, feed)
	if err != nil {
		return false, err
	}
	return e.ctrl.LoadMore(), nil
}

// Refresh re-fetches the first page of a binding
func (s *Service) Refresh(ctx context.Context, sourceID, feed string) (bool, error) {
	e, err := s.session(ctx, sourceID, feed)
	if err != nil {
		return false, err
	}
	return e.ctrl.Refresh(), nil
}

// RefreshAll refreshes every enabled, idle session holding items
func (s *Service) RefreshAll(ctx context.Context) {
	if !s.flags.IsEnabled(ctx, featureflags.BackgroundRefresh) {
		return
	}

	s.mu.Lock()
	entries := s.entriesLocked()
	s.mu.Unlock()

	refreshed := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}
		snap := e.ctrl.Snapshot()
		if !snap.Enabled() || snap.Busy() || len(snap.Items) == 0 {
			continue
		}
		if e.ctrl.Refresh() {
			refreshed++
		}
	}
	if refreshed > 0 {
		s.deps.Log().Debug("Background refresh started", map[string]interface{}{
			"sessions": refreshed,
		})
	}
}

// SetEnabled toggles a source and every session bound to it
func (s *Service) SetEnabled(ctx context.Context, sourceID string, enabled bool) (SourceStatus, error) {
	info, ok := s.registry.Get(sourceID)
	if !ok {
		return SourceStatus{}, &coreerrors.NotFoundError{Resource: "source", ID: sourceID}
	}
	s.flags.SetEnabled(featureflags.SourceFlag(info.ID), enabled)

	s.mu.Lock()
	var affected []*entry
	for _, e := range s.sessions {
		if e.binding.Source.ID == info.ID {
			affected = append(affected, e)
		}
	}
	s.mu.Unlock()

	for _, e := range affected {
		if enabled {
			e.ctrl.Enable()
		} else {
			e.ctrl.Disable()
		}
	}

	s.deps.Log().Info("Source toggled", map[string]interface{}{
		"source":   info.ID,
		"enabled":  enabled,
		"sessions": len(affected),
	})
	return SourceStatus{SourceInfo: info, Enabled: enabled}, nil
}

// ClearCache removes the given cache keys, or every entry when none are given
func (s *Service) ClearCache(ctx context.Context, keys ...string) {
	if s.store == nil {
		return
	}
	s.store.Clear(ctx, keys...)
	s.deps.Log().Info("Cache cleared", map[string]interface{}{
		"keys": len(keys),
	})
}

// CacheStats reports the cache store contents and backend statistics
func (s *Service) CacheStats(ctx context.Context) CacheStats {
	stats := CacheStats{Keys: []string{}}
	if s.store != nil {
		stats.Keys = s.store.Keys(ctx)
		sort.Strings(stats.Keys)
		stats.Entries = len(stats.Keys)
	}

	s.mu.Lock()
	stats.Sessions = len(s.sessions)
	s.mu.Unlock()

	if provider, ok := s.deps.Cache.(statsProvider); ok {
		backend, err := provider.Stats()
		if err != nil {
			s.deps.Log().Warn("Cache backend stats failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			stats.Backend = backend
		}
	}
	return stats
}

func (s *Service) entriesLocked() []*entry {
	out := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		out = append(out, e)
	}
	return out
}
