// Package fetch provides the catalog-fetch collaborator used by the picker:
// an HTTP client for the remote product search, an offline mock, and an
// optional on-disk page cache.
package fetch

import (
	"context"
	"errors"

	"tableflip.dev/curate/pkg/product"
)

// ErrFetchFailed wraps every failure of a catalog source.
var ErrFetchFailed = errors.New("fetch: failed")

// DefaultPageSize is the number of products requested per page.
const DefaultPageSize = 10

// Request identifies one page of a search.
type Request struct {
	Search string
	Page   int
	Limit  int
}

// Fetcher returns one page of products. A page shorter than Limit is the
// last one.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]product.Product, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req Request) ([]product.Product, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, req Request) ([]product.Product, error) {
	return f(ctx, req)
}

// IsLastPage reports whether a page of n items ends the search.
func (r Request) IsLastPage(n int) bool {
	limit := r.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return n < limit
}
