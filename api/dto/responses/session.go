// ABOUTME: Response DTOs for source, session and cache endpoints
// ABOUTME: Session errors are reported as data inside a 200 response

package responses

import "time"

// SourceResponse describes a content source
type SourceResponse struct {
	ID          string   `json:"id" doc:"Source id"`
	Name        string   `json:"name" doc:"Display name"`
	Feeds       []string `json:"feeds" doc:"Feed variants, the first is the default"`
	DefaultFeed string   `json:"default_feed" doc:"Feed used when none is given"`
	Enabled     bool     `json:"enabled" doc:"Whether sessions for this source fetch"`
}

// SourcesResponse lists every source
type SourcesResponse struct {
	Sources []SourceResponse `json:"sources" doc:"Registered sources"`
}

// ItemResponse is one item of a session
type ItemResponse struct {
	ID          string     `json:"id" doc:"Item id, unique within the result set"`
	Source      string     `json:"source" doc:"Producing source id"`
	Title       string     `json:"title" doc:"Title"`
	URL         string     `json:"url" doc:"Link to the item"`
	Description string     `json:"description,omitempty" doc:"Summary"`
	Author      string     `json:"author,omitempty" doc:"Author or owner"`
	Language    string     `json:"language,omitempty" doc:"Programming language (GitHub)"`
	Points      int        `json:"points,omitempty" doc:"Score or votes"`
	Comments    int        `json:"comments,omitempty" doc:"Comment count"`
	Reactions   int        `json:"reactions,omitempty" doc:"Reaction count"`
	Stars       int        `json:"stars,omitempty" doc:"Stargazers (GitHub)"`
	Forks       int        `json:"forks,omitempty" doc:"Forks (GitHub)"`
	Published   *time.Time `json:"published,omitempty" doc:"Publication time"`
}

// SessionResponse is the filtered state of one (source, feed) session
type SessionResponse struct {
	Source      string         `json:"source" doc:"Source id"`
	Feed        string         `json:"feed" doc:"Feed variant"`
	CacheKey    string         `json:"cache_key" doc:"Cache entry key of the first page"`
	Phase       string         `json:"phase" enum:"disabled,loading,loading_more,settled,failed" doc:"Session phase"`
	Loading     bool           `json:"loading" doc:"First page fetch in flight with nothing to show"`
	LoadingMore bool           `json:"loading_more" doc:"Next page fetch in flight"`
	Refreshing  bool           `json:"refreshing" doc:"Background refresh of the first page in flight"`
	Error       string         `json:"error,omitempty" doc:"Last fetch error"`
	HasMore     bool           `json:"has_more" doc:"Whether another page can be loaded"`
	Page        int            `json:"page" doc:"Number of pages loaded"`
	FromCache   bool           `json:"from_cache" doc:"Items come from the cache"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty" doc:"Last state change"`
	Query       string         `json:"query,omitempty" doc:"Applied search query"`
	Total       int            `json:"total" doc:"Items before filtering"`
	Items       []ItemResponse `json:"items" doc:"Items after filtering"`
}

// ActionResponse reports whether a session request was accepted
type ActionResponse struct {
	Accepted bool            `json:"accepted" doc:"False when the request was dropped (disabled, busy, throttled or no more pages)"`
	Session  SessionResponse `json:"session" doc:"Session state after the request"`
}

// CacheStatsResponse summarizes the cache
type CacheStatsResponse struct {
	Entries  int                    `json:"entries" doc:"Cached first pages"`
	Keys     []string               `json:"keys" doc:"Cache keys"`
	Sessions int                    `json:"sessions" doc:"Live sessions"`
	Backend  map[string]interface{} `json:"backend,omitempty" doc:"Backend statistics"`
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status  string    `json:"status" doc:"Always ok when the process serves requests"`
	Time    time.Time `json:"time" doc:"Server time"`
	Version string    `json:"version" doc:"API version"`
}
