// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for fetch, format, cache and API failures

package errors

import (
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by cache backends when a key is absent or expired
var ErrCacheMiss = errors.New("cache: key not found")

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// FetchFailedError is returned by fetch adapters when the upstream request
// fails: transport error, timeout, or a non-2xx response.
type FetchFailedError struct {
	Source     string
	Page       int
	StatusCode int // 0 when no response was received
	Err        error
}

// Error implements the error interface
func (e *FetchFailedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch failed for %s page %d: status %d: %v", e.Source, e.Page, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch failed for %s page %d: %v", e.Source, e.Page, e.Err)
}

// Unwrap returns the underlying cause
func (e *FetchFailedError) Unwrap() error {
	return e.Err
}

// InvalidFormatError is returned when an upstream payload is not the
// expected sequence of items.
type InvalidFormatError struct {
	Source string
	Detail string
}

// Error implements the error interface
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid response format from %s: %s", e.Source, e.Detail)
}

// CacheReadError is a storage fault while reading a cache entry
type CacheReadError struct {
	Key string
	Err error
}

// Error implements the error interface
func (e *CacheReadError) Error() string {
	return fmt.Sprintf("cache read failed for %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying cause
func (e *CacheReadError) Unwrap() error {
	return e.Err
}

// CacheWriteError is a storage fault while writing a cache entry
type CacheWriteError struct {
	Key string
	Err error
}

// Error implements the error interface
func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("cache write failed for %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying cause
func (e *CacheWriteError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsFetchFailed checks if an error is a FetchFailedError
func IsFetchFailed(err error) bool {
	var fetchErr *FetchFailedError
	return errors.As(err, &fetchErr)
}

// IsInvalidFormat checks if an error is an InvalidFormatError
func IsInvalidFormat(err error) bool {
	var formatErr *InvalidFormatError
	return errors.As(err, &formatErr)
}

// IsCacheFault checks if an error is a CacheReadError or CacheWriteError
func IsCacheFault(err error) bool {
	var readErr *CacheReadError
	var writeErr *CacheWriteError
	return errors.As(err, &readErr) || errors.As(err, &writeErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
