package standard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hackerhome-api/core/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ interfaces.HTTPClient = (*StandardHTTPClient)(nil)

func testClient(retries int) *StandardHTTPClient {
	return NewStandardHTTPClient(Options{
		Timeout:      2 * time.Second,
		RetryMax:     retries,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	})
}

func TestGet_SendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Header().Set("X-Test", "yes")
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	resp, err := testClient(0).Get(context.Background(), server.URL, map[string]string{"Authorization": "Bearer token"})
	require.NoError(t, err)
	defer resp.Body().Close()

	body, _ := io.ReadAll(resp.Body())
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "[]", string(body))
	assert.Equal(t, "yes", resp.Header("x-test"))
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	resp, err := testClient(3).Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	defer resp.Body().Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_ReturnsLastResponseWhenRetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	resp, err := testClient(1).Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	defer resp.Body().Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode())
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	resp, err := testClient(3).Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	defer resp.Body().Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode())
	assert.Equal(t, int32(1), calls.Load())
}

func TestPost_ReplaysBodyOnRetry(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		n := len(bodies)
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	resp, err := testClient(2).Post(context.Background(), server.URL, strings.NewReader(`{"query":"{ posts }"}`), nil)
	require.NoError(t, err)
	defer resp.Body().Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{`{"query":"{ posts }"}`, `{"query":"{ posts }"}`}, bodies)
}

func TestGet_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := testClient(0).Get(ctx, server.URL, nil)
	assert.Error(t, err)
}

func TestToFields(t *testing.T) {
	fields := toFields([]interface{}{"url", "http://x", "retry", 2, 42, "ignored", "dangling"})

	assert.Equal(t, map[string]interface{}{"url": "http://x", "retry": 2}, fields)
}
