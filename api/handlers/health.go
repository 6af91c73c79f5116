// ABOUTME: Health check handler for liveness probes
// ABOUTME: Reports server time and API version

package handlers

import (
	"context"
	"net/http"
	"time"

	"hackerhome-api/api/dto/responses"

	"github.com/danielgtaylor/huma/v2"
)

// HealthHandler answers liveness probes
type HealthHandler struct {
	version string
	now     func() time.Time
}

// NewHealthHandler creates a health handler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, now: time.Now}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Health)
}

// HealthOutput wraps the health payload
type HealthOutput struct {
	Body responses.HealthResponse
}

// Health handles GET /health
func (h *HealthHandler) Health(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{Body: responses.HealthResponse{
		Status:  "ok",
		Time:    h.now().UTC(),
		Version: h.version,
	}}, nil
}
