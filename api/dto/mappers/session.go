// ABOUTME: Mappers for converting dashboard views and domain items to API DTOs
// ABOUTME: Keeps snapshot semantics out of the handlers

package mappers

import (
	"hackerhome-api/api/dto/responses"
	"hackerhome-api/core/dashboard"
	"hackerhome-api/core/domain"
)

// ToSourceResponse converts a source status to a SourceResponse DTO
func ToSourceResponse(status dashboard.SourceStatus) responses.SourceResponse {
	return responses.SourceResponse{
		ID:          status.ID,
		Name:        status.Name,
		Feeds:       append([]string{}, status.Feeds...),
		DefaultFeed: status.DefaultFeed(),
		Enabled:     status.Enabled,
	}
}

// ToItemResponse converts a domain Item to an ItemResponse DTO
func ToItemResponse(item domain.Item) responses.ItemResponse {
	resp := responses.ItemResponse{
		ID:          item.ID,
		Source:      item.Source,
		Title:       item.Title,
		URL:         item.URL,
		Description: item.Description,
		Author:      item.Author,
		Language:    item.Language,
		Points:      item.Points,
		Comments:    item.Comments,
		Reactions:   item.Reactions,
		Stars:       item.Stars,
		Forks:       item.Forks,
	}
	if !item.Published.IsZero() {
		published := item.Published
		resp.Published = &published
	}
	return resp
}

// ToSessionResponse converts a dashboard view to a SessionResponse DTO
func ToSessionResponse(view dashboard.View) responses.SessionResponse {
	resp := responses.SessionResponse{
		Source:      view.Source.ID,
		Feed:        view.Feed,
		CacheKey:    view.CacheKey,
		Phase:       view.Phase.String(),
		Loading:     view.Loading(),
		LoadingMore: view.LoadingMore(),
		Refreshing:  view.Refreshing,
		Error:       view.ErrorMessage(),
		HasMore:     view.HasMore,
		Page:        view.Page,
		FromCache:   view.FromCache,
		Query:       view.Query,
		Total:       view.Total,
		Items:       make([]responses.ItemResponse, 0, len(view.Items)),
	}
	if !view.UpdatedAt.IsZero() {
		updated := view.UpdatedAt
		resp.UpdatedAt = &updated
	}
	for _, item := range view.Items {
		resp.Items = append(resp.Items, ToItemResponse(item))
	}
	return resp
}

// ToCacheStatsResponse converts dashboard cache stats to a DTO
func ToCacheStatsResponse(stats dashboard.CacheStats) responses.CacheStatsResponse {
	keys := stats.Keys
	if keys == nil {
		keys = []string{}
	}
	return responses.CacheStatsResponse{
		Entries:  stats.Entries,
		Keys:     keys,
		Sessions: stats.Sessions,
		Backend:  stats.Backend,
	}
}
