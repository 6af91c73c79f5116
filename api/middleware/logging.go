// ABOUTME: Request logging middleware for API endpoints
// ABOUTME: Assigns request ids and logs request details, response status and timing

package middleware

import (
	"context"
	"net/http"
	"time"

	"hackerhome-api/core/interfaces"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// SlowRequestThreshold is the duration after which a request is logged as slow
const SlowRequestThreshold = 5 * time.Second

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush forwards to the wrapped writer when it supports flushing
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

type requestIDKey struct{}

// WithRequestID stores a request id in the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the request id stored in the context, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestLoggingMiddleware creates a middleware that logs all requests.
// An incoming X-Request-ID is kept; otherwise a new one is generated.
func RequestLoggingMiddleware(logger interfaces.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" || len(requestID) > 128 {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)
			r = r.WithContext(WithRequestID(r.Context(), requestID))

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			logger.Debug("Request started", requestFields(r, requestID))

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			fields := requestFields(r, requestID)
			fields["status"] = wrapped.statusCode
			fields["duration"] = duration.String()
			fields["duration_ms"] = duration.Milliseconds()

			switch {
			case wrapped.statusCode >= 500:
				logger.Error("Request failed with server error", fields)
			case duration > SlowRequestThreshold:
				logger.Warn("Slow request detected", fields)
			default:
				logger.Info("Request completed", fields)
			}
		})
	}
}

func requestFields(r *http.Request, requestID string) map[string]interface{} {
	fields := map[string]interface{}{
		"request_id": requestID,
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote_ip":  extractIP(r),
	}
	if r.URL.RawQuery != "" {
		fields["query"] = r.URL.RawQuery
	}
	if ua := r.UserAgent(); ua != "" {
		fields["user_agent"] = ua
	}
	return fields
}
