package handlers

import (
	"context"

	"hackerhome-api/core/dashboard"
)

// mockDashboard is a func-field implementation of DashboardService
type mockDashboard struct {
	sourcesFunc    func(ctx context.Context) []dashboard.SourceStatus
	itemsFunc      func(ctx context.Context, sourceID, feed, query string, fields []string, wait bool) (dashboard.View, error)
	loadMoreFunc   func(ctx context.Context, sourceID, feed string) (bool, error)
	refreshFunc    func(ctx context.Context, sourceID, feed string) (bool, error)
	setEnabledFunc func(ctx context.Context, sourceID string, enabled bool) (dashboard.SourceStatus, error)
	clearedKeys    [][]string
	stats          dashboard.CacheStats
}

func (m *mockDashboard) Sources(ctx context.Context) []dashboard.SourceStatus {
	if m.sourcesFunc != nil {
		return m.sourcesFunc(ctx)
	}
	return nil
}

func (m *mockDashboard) Items(ctx context.Context, sourceID, feed, query string, fields []string, wait bool) (dashboard.View, error) {
	if m.itemsFunc != nil {
		return m.itemsFunc(ctx, sourceID, feed, query, fields, wait)
	}
	return dashboard.View{}, nil
}

func (m *mockDashboard) LoadMore(ctx context.Context, sourceID, feed string) (bool, error) {
	if m.loadMoreFunc != nil {
		return m.loadMoreFunc(ctx, sourceID, feed)
	}
	return false, nil
}

func (m *mockDashboard) Refresh(ctx context.Context, sourceID, feed string) (bool, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, sourceID, feed)
	}
	return false, nil
}

func (m *mockDashboard) SetEnabled(ctx context.Context, sourceID string, enabled bool) (dashboard.SourceStatus, error) {
	if m.setEnabledFunc != nil {
		return m.setEnabledFunc(ctx, sourceID, enabled)
	}
	return dashboard.SourceStatus{}, nil
}

func (m *mockDashboard) ClearCache(_ context.Context, keys ...string) {
	m.clearedKeys = append(m.clearedKeys, keys)
}

func (m *mockDashboard) CacheStats(context.Context) dashboard.CacheStats {
	return m.stats
}
