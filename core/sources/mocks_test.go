package sources

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"hackerhome-api/core/interfaces"
)

// mockResponse implements interfaces.Response
type mockResponse struct {
	status  int
	body    string
	headers map[string]string
}

func (r *mockResponse) StatusCode() int { return r.status }

func (r *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(r.body))
}

func (r *mockResponse) Header(key string) string {
	return r.headers[http.CanonicalHeaderKey(key)]
}

func okResp(body string) *mockResponse {
	return &mockResponse{status: http.StatusOK, body: body}
}

func statusResp(code int) *mockResponse {
	return &mockResponse{status: code, body: http.StatusText(code)}
}

// recordedRequest is one call seen by mockHTTPClient
type recordedRequest struct {
	method  string
	url     string
	body    string
	headers map[string]string
}

// mockHTTPClient answers requests through handler and records them
type mockHTTPClient struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(req recordedRequest) (*mockResponse, error)
}

var _ interfaces.HTTPClient = (*mockHTTPClient)(nil)

// routes answers exact URLs and 404s everything else
func routes(table map[string]*mockResponse) *mockHTTPClient {
	return &mockHTTPClient{
		handler: func(req recordedRequest) (*mockResponse, error) {
			if resp, found := table[req.url]; found {
				return resp, nil
			}
			return statusResp(http.StatusNotFound), nil
		},
	}
}

func (m *mockHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
	return m.do(ctx, recordedRequest{method: http.MethodGet, url: url, headers: headers})
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (interfaces.Response, error) {
	var data []byte
	if body != nil {
		data, _ = io.ReadAll(body)
	}
	return m.do(ctx, recordedRequest{method: http.MethodPost, url: url, body: string(data), headers: headers})
}

func (m *mockHTTPClient) do(ctx context.Context, req recordedRequest) (interfaces.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.handler == nil {
		return nil, errors.New("no handler")
	}
	resp, err := m.handler(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (m *mockHTTPClient) Requests() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]recordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *mockHTTPClient) URLs() []string {
	var urls []string
	for _, r := range m.Requests() {
		urls = append(urls, r.url)
	}
	return urls
}
