// ABOUTME: Shared request and decode helpers for the fetch adapters
// ABOUTME: Maps transport and status failures to FetchFailed and bad payloads to InvalidFormat

package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"
)

const (
	maxBodySize  = 8 << 20
	errorSnippet = 256
)

var errNoHTTPClient = errors.New("http client not configured")

// getBody performs a GET and returns the body of a 2xx response
func getBody(ctx context.Context, client interfaces.HTTPClient, source string, page int, url string, headers map[string]string) ([]byte, error) {
	if client == nil {
		return nil, &coreerrors.FetchFailedError{Source: source, Page: page, Err: errNoHTTPClient}
	}
	resp, err := client.Get(ctx, url, headers)
	if err != nil {
		return nil, &coreerrors.FetchFailedError{Source: source, Page: page, Err: err}
	}
	return readBody(resp, source, page)
}

// postBody performs a POST and returns the body of a 2xx response
func postBody(ctx context.Context, client interfaces.HTTPClient, source string, page int, url string, body io.Reader, headers map[string]string) ([]byte, error) {
	if client == nil {
		return nil, &coreerrors.FetchFailedError{Source: source, Page: page, Err: errNoHTTPClient}
	}
	resp, err := client.Post(ctx, url, body, headers)
	if err != nil {
		return nil, &coreerrors.FetchFailedError{Source: source, Page: page, Err: err}
	}
	return readBody(resp, source, page)
}

func readBody(resp interfaces.Response, source string, page int) ([]byte, error) {
	body := resp.Body()
	if body == nil {
		return nil, &coreerrors.FetchFailedError{Source: source, Page: page, StatusCode: resp.StatusCode(), Err: errors.New("empty response")}
	}
	defer body.Close()

	if code := resp.StatusCode(); code < 200 || code > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(body, errorSnippet))
		return nil, &coreerrors.FetchFailedError{
			Source:     source,
			Page:       page,
			StatusCode: code,
			Err:        fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(snippet))),
		}
	}

	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return nil, &coreerrors.FetchFailedError{Source: source, Page: page, StatusCode: resp.StatusCode(), Err: err}
	}
	return data, nil
}

// decodeJSON unmarshals data into v; any mismatch is an InvalidFormatError
func decodeJSON(data []byte, source string, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &coreerrors.InvalidFormatError{Source: source, Detail: err.Error()}
	}
	return nil
}

// decodeArray unmarshals data that must be a JSON array
func decodeArray(data []byte, source string) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := decodeJSON(data, source, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, &coreerrors.InvalidFormatError{Source: source, Detail: "expected an array, got null"}
	}
	return raw, nil
}

// paginate returns the page window of items, empty past the end
func paginate[T any](items []T, page, perPage int) []T {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}

	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
