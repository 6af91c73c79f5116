// ABOUTME: Session state snapshot published by a controller to its readers
// ABOUTME: A single Phase value replaces independent loading flags

package session

import (
	"time"

	"hackerhome-api/core/domain"
)

// Phase is the lifecycle position of a session
type Phase int

const (
	// PhaseDisabled is the inert state: no items, no fetch
	PhaseDisabled Phase = iota
	// PhaseLoading is the first page fetch with nothing to show yet
	PhaseLoading
	// PhaseLoadingMore is a fetch of page+1 with existing items visible
	PhaseLoadingMore
	// PhaseSettled means the last fetch succeeded or a fresh cache entry was used
	PhaseSettled
	// PhaseFailed means the last fetch failed; Err is set
	PhaseFailed
)

// String returns the phase name used in logs and API responses
func (p Phase) String() string {
	switch p {
	case PhaseDisabled:
		return "disabled"
	case PhaseLoading:
		return "loading"
	case PhaseLoadingMore:
		return "loading_more"
	case PhaseSettled:
		return "settled"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is an immutable copy of a session's state
type Snapshot struct {
	Phase Phase

	// Items accumulated across pages in page order
	Items []domain.Item

	// Page is the highest successfully loaded page, 0 before the first load
	Page int

	HasMore bool

	// Err is the last fetch error; it never clears Items
	Err error

	// Refreshing is true while a page 1 fetch runs behind visible items
	Refreshing bool

	// FromCache is true when Items came from the cache store
	FromCache bool

	UpdatedAt time.Time
}

// Loading reports whether the first page is being fetched
func (s Snapshot) Loading() bool {
	return s.Phase == PhaseLoading
}

// LoadingMore reports whether a subsequent page is being fetched
func (s Snapshot) LoadingMore() bool {
	return s.Phase == PhaseLoadingMore
}

// Enabled reports whether the session is bound
func (s Snapshot) Enabled() bool {
	return s.Phase != PhaseDisabled
}

// Busy reports whether any fetch is in flight
func (s Snapshot) Busy() bool {
	return s.Loading() || s.LoadingMore() || s.Refreshing
}

// ErrorMessage returns the error text or an empty string
func (s Snapshot) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}
