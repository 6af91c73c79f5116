// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"context"
	stderrors "errors"

	"hackerhome-api/core/dashboard"
	"hackerhome-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	var statusErr huma.StatusError
	if stderrors.As(err, &statusErr) {
		return err
	}

	if errors.IsNotFound(err) {
		return huma.Error404NotFound(err.Error())
	}

	if errors.IsValidation(err) {
		return huma.Error400BadRequest(err.Error())
	}

	if stderrors.Is(err, dashboard.ErrClosed) {
		return huma.Error503ServiceUnavailable("Service is shutting down")
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return huma.Error504GatewayTimeout("Timed out waiting for the session")
	}

	if errors.IsFetchFailed(err) || errors.IsInvalidFormat(err) {
		return huma.Error502BadGateway("Upstream source error", err)
	}

	var apiErr *errors.ExternalAPIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode >= 500:
			return huma.Error503ServiceUnavailable("External service error", err)
		case apiErr.StatusCode == 429:
			return huma.Error429TooManyRequests("Rate limited by external service")
		case apiErr.StatusCode >= 400:
			return huma.Error400BadRequest("External service request error", err)
		default:
			return huma.Error500InternalServerError("Unexpected external service response", err)
		}
	}

	// Default to internal server error for unknown errors
	return huma.Error500InternalServerError("Internal server error", err)
}
