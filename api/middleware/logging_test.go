package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggingMiddleware_LogsStartAndCompletion(t *testing.T) {
	logger := &mockLogger{}
	handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/sources/hn/more?feed=top", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Len(t, logger.logs, 2)
	assert.Equal(t, "DEBUG", logger.logs[0].Level)
	assert.Equal(t, "Request started", logger.logs[0].Message)

	done := logger.last()
	assert.Equal(t, "INFO", done.Level)
	assert.Equal(t, "Request completed", done.Message)
	assert.Equal(t, http.MethodPost, done.Fields["method"])
	assert.Equal(t, "/sources/hn/more", done.Fields["path"])
	assert.Equal(t, "feed=top", done.Fields["query"])
	assert.Equal(t, "10.0.0.1", done.Fields["remote_ip"])
	assert.Equal(t, http.StatusOK, done.Fields["status"])
	assert.NotEmpty(t, done.Fields["request_id"])
}

func TestRequestLoggingMiddleware_StatusLevels(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		level   string
		message string
	}{
		{"ok", http.StatusOK, "INFO", "Request completed"},
		{"not found", http.StatusNotFound, "INFO", "Request completed"},
		{"bad gateway", http.StatusBadGateway, "ERROR", "Request failed with server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sources", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.level, logger.last().Level)
			assert.Equal(t, tt.message, logger.last().Message)
			assert.Equal(t, tt.status, logger.last().Fields["status"])
		})
	}
}

func TestRequestLoggingMiddleware_ImplicitStatusOnWrite(t *testing.T) {
	logger := &mockLogger{}
	handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, logger.last().Fields["status"])
	assert.Equal(t, "hello", rec.Body.String())
}

func TestRequestLoggingMiddleware_RequestID(t *testing.T) {
	t.Run("generated when absent", func(t *testing.T) {
		var seen string
		handler := RequestLoggingMiddleware(&mockLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("incoming id is kept", func(t *testing.T) {
		var seen string
		handler := RequestLoggingMiddleware(&mockLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("unique per request", func(t *testing.T) {
		handler := RequestLoggingMiddleware(&mockLogger{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		ids := map[string]bool{}
		for i := 0; i < 20; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			ids[rec.Header().Get(RequestIDHeader)] = true
		}
		assert.Len(t, ids, 20)
	})
}

func TestRequestLoggingMiddleware_NilLogger(t *testing.T) {
	handler := RequestLoggingMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:80", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:80", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.1:4321", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, extractIP(req))
		})
	}
}
