// ABOUTME: Source and session handlers for the Huma API
// ABOUTME: Exposes filtered session snapshots, pagination, refresh and source toggles

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hackerhome-api/api/dto/mappers"
	"hackerhome-api/api/dto/requests"
	"hackerhome-api/api/dto/responses"
	"hackerhome-api/core/dashboard"
	"hackerhome-api/core/search"

	"github.com/danielgtaylor/huma/v2"
)

// DefaultWaitTimeout bounds how long ?wait=true blocks
const DefaultWaitTimeout = 20 * time.Second

// DashboardService defines the methods needed from the dashboard
type DashboardService interface {
	Sources(ctx context.Context) []dashboard.SourceStatus
	Items(ctx context.Context, sourceID, feed, query string, fields []string, wait bool) (dashboard.View, error)
	LoadMore(ctx context.Context, sourceID, feed string) (bool, error)
	Refresh(ctx context.Context, sourceID, feed string) (bool, error)
	SetEnabled(ctx context.Context, sourceID string, enabled bool) (dashboard.SourceStatus, error)
	ClearCache(ctx context.Context, keys ...string)
	CacheStats(ctx context.Context) dashboard.CacheStats
}

// SourceHandler handles source and session requests
type SourceHandler struct {
	dashboard   DashboardService
	waitTimeout time.Duration
}

// NewSourceHandler creates a new source handler
func NewSourceHandler(svc DashboardService) *SourceHandler {
	return &SourceHandler{dashboard: svc, waitTimeout: DefaultWaitTimeout}
}

// RegisterRoutes registers all source and cache routes
func (h *SourceHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listSources",
		Method:      http.MethodGet,
		Path:        "/sources",
		Summary:     "List content sources",
		Description: "Returns every registered source with its feed variants and enabled state",
		Tags:        []string{"Sources"},
	}, h.ListSources)

	huma.Register(api, huma.Operation{
		OperationID: "getItems",
		Method:      http.MethodGet,
		Path:        "/sources/{source}/items",
		Summary:     "Get session items",
		Description: "Returns the session snapshot of a (source, feed) binding filtered by an optional search query",
		Tags:        []string{"Sessions"},
	}, h.GetItems)

	huma.Register(api, huma.Operation{
		OperationID: "loadMore",
		Method:      http.MethodPost,
		Path:        "/sources/{source}/more",
		Summary:     "Load the next page",
		Description: "Starts loading the next page; dropped when disabled, busy, throttled or out of pages",
		Tags:        []string{"Sessions"},
	}, h.LoadMore)

	huma.Register(api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/sources/{source}/refresh",
		Summary:     "Refresh the first page",
		Description: "Re-fetches the first page, keeping visible items until it settles",
		Tags:        []string{"Sessions"},
	}, h.Refresh)

	huma.Register(api, huma.Operation{
		OperationID: "setSourceEnabled",
		Method:      http.MethodPut,
		Path:        "/sources/{source}/enabled",
		Summary:     "Enable or disable a source",
		Tags:        []string{"Sources"},
	}, h.SetEnabled)

	huma.Register(api, huma.Operation{
		OperationID:   "clearCache",
		Method:        http.MethodDelete,
		Path:          "/cache",
		Summary:       "Clear cached first pages",
		Description:   "Removes the given cache keys, or every entry when no key is given",
		Tags:          []string{"Cache"},
		DefaultStatus: http.StatusNoContent,
	}, h.ClearCache)

	huma.Register(api, huma.Operation{
		OperationID: "cacheStats",
		Method:      http.MethodGet,
		Path:        "/cache/stats",
		Summary:     "Cache statistics",
		Tags:        []string{"Cache"},
	}, h.CacheStats)
}

// ListSourcesOutput defines the output for the ListSources operation
type ListSourcesOutput struct {
	Body responses.SourcesResponse
}

// ListSources handles GET /sources
func (h *SourceHandler) ListSources(ctx context.Context, _ *struct{}) (*ListSourcesOutput, error) {
	statuses := h.dashboard.Sources(ctx)
	out := &ListSourcesOutput{Body: responses.SourcesResponse{
		Sources: make([]responses.SourceResponse, 0, len(statuses)),
	}}
	for _, s := range statuses {
		out.Body.Sources = append(out.Body.Sources, mappers.ToSourceResponse(s))
	}
	return out, nil
}

// SessionInput selects a (source, feed) binding
type SessionInput struct {
	Source string `path:"source" doc:"Source id or alias" example:"hackernews"`
	Feed   string `query:"feed" doc:"Feed variant, defaults to the source's first feed" example:"top"`
}

// GetItemsInput defines the input for the GetItems operation
type GetItemsInput struct {
	SessionInput
	Query  string `query:"q" doc:"Case-insensitive substring search" example:"rust"`
	Fields string `query:"fields" doc:"Comma separated fields to search" example:"title,author"`
	Wait   bool   `query:"wait" doc:"Wait for an in-flight fetch before answering"`
}

// SessionOutput wraps a session snapshot
type SessionOutput struct {
	Body responses.SessionResponse
}

// GetItems handles GET /sources/{source}/items
func (h *SourceHandler) GetItems(ctx context.Context, input *GetItemsInput) (*SessionOutput, error) {
	fields := search.ParseFields(input.Fields)

	view, err := h.items(ctx, input.Source, input.Feed, input.Query, fields, input.Wait)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: mappers.ToSessionResponse(view)}, nil
}

// items fetches a view, falling back to the current snapshot when waiting times out
func (h *SourceHandler) items(ctx context.Context, source, feed, query string, fields []string, wait bool) (dashboard.View, error) {
	if !wait {
		return h.dashboard.Items(ctx, source, feed, query, fields, false)
	}

	waitCtx, cancel := context.WithTimeout(ctx, h.waitTimeout)
	defer cancel()
	view, err := h.dashboard.Items(waitCtx, source, feed, query, fields, true)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return h.dashboard.Items(ctx, source, feed, query, fields, false)
	}
	return view, err
}

// ActionOutput wraps the result of LoadMore and Refresh
type ActionOutput struct {
	Body responses.ActionResponse
}

// LoadMore handles POST /sources/{source}/more
func (h *SourceHandler) LoadMore(ctx context.Context, input *SessionInput) (*ActionOutput, error) {
	accepted, err := h.dashboard.LoadMore(ctx, input.Source, input.Feed)
	if err != nil {
		return nil, toHumaError(err)
	}
	return h.action(ctx, input, accepted)
}

// Refresh handles POST /sources/{source}/refresh
func (h *SourceHandler) Refresh(ctx context.Context, input *SessionInput) (*ActionOutput, error) {
	accepted, err := h.dashboard.Refresh(ctx, input.Source, input.Feed)
	if err != nil {
		return nil, toHumaError(err)
	}
	return h.action(ctx, input, accepted)
}

func (h *SourceHandler) action(ctx context.Context, input *SessionInput, accepted bool) (*ActionOutput, error) {
	view, err := h.dashboard.Items(ctx, input.Source, input.Feed, "", nil, false)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ActionOutput{Body: responses.ActionResponse{
		Accepted: accepted,
		Session:  mappers.ToSessionResponse(view),
	}}, nil
}

// SetEnabledInput defines the input for the SetEnabled operation
type SetEnabledInput struct {
	Source string `path:"source" doc:"Source id or alias"`
	Body   requests.SetEnabledRequest
}

// SourceOutput wraps one source
type SourceOutput struct {
	Body responses.SourceResponse
}

// SetEnabled handles PUT /sources/{source}/enabled
func (h *SourceHandler) SetEnabled(ctx context.Context, input *SetEnabledInput) (*SourceOutput, error) {
	status, err := h.dashboard.SetEnabled(ctx, input.Source, input.Body.Enabled)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SourceOutput{Body: mappers.ToSourceResponse(status)}, nil
}

// ClearCacheInput defines the input for the ClearCache operation
type ClearCacheInput struct {
	Keys []string `query:"key" doc:"Comma separated cache keys to remove, e.g. hn-top,devto-top; omit to clear everything"`
}

// ClearCache handles DELETE /cache
func (h *SourceHandler) ClearCache(ctx context.Context, input *ClearCacheInput) (*struct{}, error) {
	h.dashboard.ClearCache(ctx, input.Keys...)
	return nil, nil
}

// CacheStatsOutput wraps the cache statistics
type CacheStatsOutput struct {
	Body responses.CacheStatsResponse
}

// CacheStats handles GET /cache/stats
func (h *SourceHandler) CacheStats(ctx context.Context, _ *struct{}) (*CacheStatsOutput, error) {
	return &CacheStatsOutput{Body: mappers.ToCacheStatsResponse(h.dashboard.CacheStats(ctx))}, nil
}
