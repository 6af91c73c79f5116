package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"hackerhome-api/api/dto/responses"
	"hackerhome-api/core/dashboard"
	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/session"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hnInfo = domain.SourceInfo{ID: "hackernews", Name: "Hacker News", KeyPrefix: "hn", Feeds: []string{"top", "new"}}

func settledView(query string, items ...domain.Item) dashboard.View {
	return dashboard.View{
		Snapshot: session.Snapshot{
			Phase:     session.PhaseSettled,
			Items:     items,
			Page:      1,
			HasMore:   true,
			UpdatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		Source:   hnInfo,
		Feed:     "top",
		CacheKey: "hn-top",
		Query:    query,
		Total:    len(items),
	}
}

func newTestAPI(t *testing.T, svc *mockDashboard) humatest.TestAPI {
	_, api := humatest.New(t)
	NewSourceHandler(svc).RegisterRoutes(api)
	return api
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestListSources(t *testing.T) {
	svc := &mockDashboard{sourcesFunc: func(context.Context) []dashboard.SourceStatus {
		return []dashboard.SourceStatus{
			{SourceInfo: hnInfo, Enabled: true},
			{SourceInfo: domain.SourceInfo{ID: "producthunt", Name: "Product Hunt", KeyPrefix: "ph", Feeds: []string{"ranking"}}},
		}
	}}
	api := newTestAPI(t, svc)

	resp := api.Get("/sources")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[responses.SourcesResponse](t, resp.Body.Bytes())
	require.Len(t, body.Sources, 2)
	assert.Equal(t, "hackernews", body.Sources[0].ID)
	assert.Equal(t, "top", body.Sources[0].DefaultFeed)
	assert.True(t, body.Sources[0].Enabled)
	assert.False(t, body.Sources[1].Enabled)
}

func TestGetItems(t *testing.T) {
	var gotFeed, gotQuery string
	var gotFields []string
	var gotWait bool
	svc := &mockDashboard{itemsFunc: func(_ context.Context, source, feed, query string, fields []string, wait bool) (dashboard.View, error) {
		gotFeed, gotQuery, gotFields, gotWait = feed, query, fields, wait
		return settledView(query, domain.Item{ID: "1", Source: source, Title: "Go 1.22", URL: "https://go.dev", Points: 5}), nil
	}}
	api := newTestAPI(t, svc)

	resp := api.Get("/sources/hn/items?feed=new&q=go&fields=Title,author&wait=true")
	require.Equal(t, http.StatusOK, resp.Code)

	assert.Equal(t, "new", gotFeed)
	assert.Equal(t, "go", gotQuery)
	assert.Equal(t, []string{"title", "author"}, gotFields)
	assert.True(t, gotWait)

	body := decode[responses.SessionResponse](t, resp.Body.Bytes())
	assert.Equal(t, "settled", body.Phase)
	assert.Equal(t, "hn-top", body.CacheKey)
	assert.True(t, body.HasMore)
	assert.False(t, body.Loading)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Go 1.22", body.Items[0].Title)
	assert.Equal(t, 5, body.Items[0].Points)
	assert.Nil(t, body.Items[0].Published)
}

func TestGetItems_SessionErrorIsData(t *testing.T) {
	svc := &mockDashboard{itemsFunc: func(context.Context, string, string, string, []string, bool) (dashboard.View, error) {
		view := settledView("")
		view.Phase = session.PhaseFailed
		view.HasMore = false
		view.Err = &coreerrors.FetchFailedError{Source: "hackernews", Page: 1, StatusCode: 503, Err: errors.New("unavailable")}
		return view, nil
	}}
	api := newTestAPI(t, svc)

	resp := api.Get("/sources/hackernews/items")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[responses.SessionResponse](t, resp.Body.Bytes())
	assert.Equal(t, "failed", body.Phase)
	assert.Contains(t, body.Error, "status 503")
	assert.NotNil(t, body.Items)
}

func TestGetItems_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unknown source", &coreerrors.NotFoundError{Resource: "source", ID: "x"}, http.StatusNotFound},
		{"bad feed", &coreerrors.ValidationError{Field: "feed", Message: "unknown feed"}, http.StatusBadRequest},
		{"closed", dashboard.ErrClosed, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockDashboard{itemsFunc: func(context.Context, string, string, string, []string, bool) (dashboard.View, error) {
				return dashboard.View{}, tt.err
			}}
			api := newTestAPI(t, svc)

			resp := api.Get("/sources/x/items")
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestGetItems_WaitTimeoutFallsBackToSnapshot(t *testing.T) {
	calls := 0
	svc := &mockDashboard{itemsFunc: func(ctx context.Context, _, _, _ string, _ []string, wait bool) (dashboard.View, error) {
		calls++
		if wait {
			<-ctx.Done()
			return dashboard.View{}, ctx.Err()
		}
		view := settledView("")
		view.Phase = session.PhaseLoading
		return view, nil
	}}
	_, api := humatest.New(t)
	h := NewSourceHandler(svc)
	h.waitTimeout = 10 * time.Millisecond
	h.RegisterRoutes(api)

	resp := api.Get("/sources/hn/items?wait=true")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, calls)

	body := decode[responses.SessionResponse](t, resp.Body.Bytes())
	assert.Equal(t, "loading", body.Phase)
	assert.True(t, body.Loading)
}

func TestLoadMoreAndRefresh(t *testing.T) {
	var loadMoreCalls, refreshCalls int
	svc := &mockDashboard{
		loadMoreFunc: func(_ context.Context, source, feed string) (bool, error) {
			loadMoreCalls++
			assert.Equal(t, "hn", source)
			assert.Equal(t, "top", feed)
			return true, nil
		},
		refreshFunc: func(context.Context, string, string) (bool, error) {
			refreshCalls++
			return false, nil
		},
		itemsFunc: func(context.Context, string, string, string, []string, bool) (dashboard.View, error) {
			view := settledView("")
			view.Phase = session.PhaseLoadingMore
			return view, nil
		},
	}
	api := newTestAPI(t, svc)

	resp := api.Post("/sources/hn/more?feed=top")
	require.Equal(t, http.StatusOK, resp.Code)
	more := decode[responses.ActionResponse](t, resp.Body.Bytes())
	assert.True(t, more.Accepted)
	assert.True(t, more.Session.LoadingMore)

	resp = api.Post("/sources/hn/refresh?feed=top")
	require.Equal(t, http.StatusOK, resp.Code)
	refresh := decode[responses.ActionResponse](t, resp.Body.Bytes())
	assert.False(t, refresh.Accepted)

	assert.Equal(t, 1, loadMoreCalls)
	assert.Equal(t, 1, refreshCalls)
}

func TestLoadMore_UnknownSource(t *testing.T) {
	svc := &mockDashboard{loadMoreFunc: func(context.Context, string, string) (bool, error) {
		return false, &coreerrors.NotFoundError{Resource: "source", ID: "nope"}
	}}
	api := newTestAPI(t, svc)

	resp := api.Post("/sources/nope/more")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSetEnabled(t *testing.T) {
	svc := &mockDashboard{setEnabledFunc: func(_ context.Context, source string, enabled bool) (dashboard.SourceStatus, error) {
		assert.Equal(t, "ph", source)
		return dashboard.SourceStatus{SourceInfo: domain.SourceInfo{ID: "producthunt", Feeds: []string{"ranking"}}, Enabled: enabled}, nil
	}}
	api := newTestAPI(t, svc)

	resp := api.Put("/sources/ph/enabled", map[string]any{"enabled": true})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[responses.SourceResponse](t, resp.Body.Bytes())
	assert.Equal(t, "producthunt", body.ID)
	assert.True(t, body.Enabled)
}

func TestClearCache(t *testing.T) {
	svc := &mockDashboard{}
	api := newTestAPI(t, svc)

	resp := api.Delete("/cache?key=hn-top,devto-top")
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.Delete("/cache")
	assert.Equal(t, http.StatusNoContent, resp.Code)

	require.Len(t, svc.clearedKeys, 2)
	assert.Equal(t, []string{"hn-top", "devto-top"}, svc.clearedKeys[0])
	assert.Empty(t, svc.clearedKeys[1])
}

func TestCacheStats(t *testing.T) {
	svc := &mockDashboard{stats: dashboard.CacheStats{
		Entries:  1,
		Keys:     []string{"hn-top"},
		Sessions: 3,
		Backend:  map[string]interface{}{"backend": "memory"},
	}}
	api := newTestAPI(t, svc)

	resp := api.Get("/cache/stats")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), `"backend":"memory"`))

	body := decode[responses.CacheStatsResponse](t, resp.Body.Bytes())
	assert.Equal(t, 1, body.Entries)
	assert.Equal(t, 3, body.Sessions)
}

func TestHealth(t *testing.T) {
	_, api := humatest.New(t)
	h := NewHealthHandler("1.2.3")
	h.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	h.RegisterRoutes(api)

	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[responses.HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
}
