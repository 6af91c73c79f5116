// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines the fetch adapter contract every content source implements

package interfaces

import (
	"context"

	"hackerhome-api/core/domain"
)

// Fetcher loads one page of items from a content source.
// Pages start at 1. Implementations return *errors.FetchFailedError for
// transport or HTTP failures and *errors.InvalidFormatError when the
// upstream payload is not the expected sequence.
type Fetcher interface {
	Fetch(ctx context.Context, page int) ([]domain.Item, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface
type FetcherFunc func(ctx context.Context, page int) ([]domain.Item, error)

// Fetch calls f(ctx, page)
func (f FetcherFunc) Fetch(ctx context.Context, page int) ([]domain.Item, error) {
	return f(ctx, page)
}
