// ABOUTME: HTTP client implementation on hashicorp/go-retryablehttp with timeout support
// ABOUTME: Retries transport errors, 429 and 5xx responses with exponential backoff

package standard

import (
	"context"
	"io"
	"net/http"
	"time"

	"hackerhome-api/core/interfaces"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultUserAgent = "HackerHome/1.0"

// Options configures the HTTP client
type Options struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	UserAgent    string
	Logger       interfaces.Logger
}

// StandardHTTPClient implements the HTTPClient interface
type StandardHTTPClient struct {
	inner     *retryablehttp.Client
	userAgent string
}

// NewStandardHTTPClient creates a new HTTP client
func NewStandardHTTPClient(opts Options) *StandardHTTPClient {
	r := retryablehttp.NewClient()
	r.RetryMax = opts.RetryMax
	if opts.Timeout > 0 {
		r.HTTPClient.Timeout = opts.Timeout
	}
	if opts.RetryWaitMin > 0 {
		r.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		r.RetryWaitMax = opts.RetryWaitMax
	}
	// Hand the last response back to callers instead of a "giving up" error
	r.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Logger != nil {
		r.Logger = leveledLogger{opts.Logger}
	} else {
		r.Logger = nil
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &StandardHTTPClient{inner: r, userAgent: ua}
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
	return c.do(ctx, http.MethodGet, url, nil, headers)
}

// Post performs an HTTP POST request. The body is buffered so it can be replayed on retry.
func (c *StandardHTTPClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (interfaces.Response, error) {
	return c.do(ctx, http.MethodPost, url, body, headers)
}

func (c *StandardHTTPClient) do(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (interfaces.Response, error) {
	var raw interface{}
	if body != nil {
		raw = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, raw)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, err
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}

// leveledLogger routes retryablehttp logs to the application logger
type leveledLogger struct {
	logger interfaces.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
