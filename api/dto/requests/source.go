// ABOUTME: Request DTOs for source endpoints
// ABOUTME: Bodies are validated by huma from their struct tags

package requests

// SetEnabledRequest toggles a source
type SetEnabledRequest struct {
	Enabled bool `json:"enabled" doc:"Whether the source should fetch"`
}
