package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hackerhome-api/core/dashboard"
	coreerrors "hackerhome-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHumaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &coreerrors.NotFoundError{Resource: "source", ID: "x"}, http.StatusNotFound},
		{"validation", &coreerrors.ValidationError{Field: "feed", Message: "bad"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("items: %w", &coreerrors.ValidationError{Field: "q"}), http.StatusBadRequest},
		{"closed", dashboard.ErrClosed, http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"fetch failed", &coreerrors.FetchFailedError{Source: "devto", Page: 1, Err: errors.New("x")}, http.StatusBadGateway},
		{"invalid format", &coreerrors.InvalidFormatError{Source: "github"}, http.StatusBadGateway},
		{"external 5xx", &coreerrors.ExternalAPIError{StatusCode: 502, API: "x"}, http.StatusServiceUnavailable},
		{"external 429", &coreerrors.ExternalAPIError{StatusCode: 429, API: "x"}, http.StatusTooManyRequests},
		{"external 4xx", &coreerrors.ExternalAPIError{StatusCode: 404, API: "x"}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"huma passthrough", huma.Error409Conflict("busy"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var statusErr huma.StatusError
			require.ErrorAs(t, toHumaError(tt.err), &statusErr)
			assert.Equal(t, tt.want, statusErr.GetStatus())
		})
	}

	assert.NoError(t, toHumaError(nil))
}
