// Package picker models the product picker dialog: a searchable, paginated
// candidate list with hierarchical multi-select. Model values are immutable;
// every method returns the next Model.
package picker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/ordered"
	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/selection"
)

var (
	// ErrClosed is returned by operations that need an open picker.
	ErrClosed = errors.New("picker: closed")
	// ErrStalePage marks a page that arrived for a query or page number the
	// picker has moved past.
	ErrStalePage = errors.New("picker: stale page")
	// ErrBusy means a page is already being fetched.
	ErrBusy = errors.New("picker: fetch in flight")
	// ErrExhausted means the last page was already seen.
	ErrExhausted = errors.New("picker: no more pages")
)

// Model is one immutable picker state.
type Model struct {
	pageSize int

	open   bool
	target product.ID

	query      string
	candidates []product.Product
	page       int
	hasMore    bool
	loading    bool
	err        error

	sel selection.State
}

// New returns a closed picker fetching pageSize products per page.
func New(pageSize int) Model {
	if pageSize <= 0 {
		pageSize = fetch.DefaultPageSize
	}
	return Model{pageSize: pageSize}
}

// Open starts a session editing target. Selection, query, candidates and
// pagination always start from scratch.
func (m Model) Open(target product.ID) Model {
	return Model{
		pageSize: m.pageSize,
		open:     true,
		target:   target,
		hasMore:  true,
		sel:      m.sel.Reset(),
	}
}

// Close hides the picker. Nothing is applied.
func (m Model) Close() Model {
	m.open = false
	m.loading = false
	return m
}

// Search replaces the query and restarts pagination. The selection is kept.
func (m Model) Search(query string) Model {
	if !m.open {
		return m
	}
	m.query = query
	m.candidates = nil
	m.page = 0
	m.hasMore = true
	m.loading = false
	m.err = nil
	return m
}

// BeginFetch marks the next page as in flight and returns the request to
// issue.
func (m Model) BeginFetch() (Model, fetch.Request, error) {
	switch {
	case !m.open:
		return m, fetch.Request{}, ErrClosed
	case m.loading:
		return m, fetch.Request{}, ErrBusy
	case !m.hasMore:
		return m, fetch.Request{}, ErrExhausted
	}
	m.loading = true
	return m, m.request(), nil
}

// ApplyPage folds the outcome of req into the model. Results for a request
// the picker no longer expects are dropped with ErrStalePage. A failure
// stops pagination and is returned wrapped in fetch.ErrFetchFailed.
func (m Model) ApplyPage(req fetch.Request, items []product.Product, fetchErr error) (Model, error) {
	if !m.open || !m.loading || req != m.request() {
		return m, fmt.Errorf("%w: %q page %d", ErrStalePage, req.Search, req.Page)
	}
	m.loading = false
	if fetchErr != nil {
		if !errors.Is(fetchErr, fetch.ErrFetchFailed) {
			fetchErr = fmt.Errorf("%w: %v", fetch.ErrFetchFailed, fetchErr)
		}
		m.hasMore = false
		m.err = fetchErr
		return m, fetchErr
	}
	merged := append(make([]product.Product, 0, len(m.candidates)+len(items)), m.candidates...)
	for _, p := range items {
		if ordered.Contains(merged, p.ID) {
			continue
		}
		merged = append(merged, p.Clone())
	}
	m.candidates = merged
	m.page++
	m.hasMore = !req.IsLastPage(len(items))
	return m, nil
}

// NextPage fetches and applies the next page synchronously.
func (m Model) NextPage(ctx context.Context, f fetch.Fetcher) (Model, error) {
	next, req, err := m.BeginFetch()
	if err != nil {
		return m, err
	}
	items, err := f.Fetch(ctx, req)
	return next.ApplyPage(req, items, err)
}

// ToggleProduct selects a candidate with all its variants, or clears it.
func (m Model) ToggleProduct(id product.ID) Model {
	p, ok := m.candidate(id)
	if !ok {
		return m
	}
	m.sel = m.sel.ToggleProduct(p)
	return m
}

// ToggleVariant flips one variant of a candidate.
func (m Model) ToggleVariant(productID, variantID product.ID) Model {
	p, ok := m.candidate(productID)
	if !ok || !p.HasVariant(variantID) {
		return m
	}
	m.sel = m.sel.ToggleVariant(productID, variantID)
	return m
}

// DropProduct forgets any selection of id.
func (m Model) DropProduct(id product.ID) Model {
	m.sel = m.sel.Drop(id)
	return m
}

// DropVariant forgets a selected variant.
func (m Model) DropVariant(productID, variantID product.ID) Model {
	m.sel = m.sel.DropVariant(productID, variantID)
	return m
}

// Retarget points an open picker at a different row.
func (m Model) Retarget(target product.ID) Model {
	m.target = target
	return m
}

// Confirm closes the picker and returns the row being edited plus the
// materialized selection in candidate order.
func (m Model) Confirm() (Model, product.ID, []product.Product, error) {
	if !m.open {
		return m, "", nil, ErrClosed
	}
	picked := m.sel.Materialize(m.candidates)
	return m.Close(), m.target, picked, nil
}

// IsOpen reports whether the dialog is showing.
func (m Model) IsOpen() bool { return m.open }

// Target is the product row the picker will replace.
func (m Model) Target() product.ID { return m.target }

// Query is the current search text.
func (m Model) Query() string { return m.query }

// Candidates returns a copy of the loaded candidates.
func (m Model) Candidates() []product.Product { return product.CloneAll(m.candidates) }

// HasMore reports whether another page may exist.
func (m Model) HasMore() bool { return m.hasMore }

// Loading reports whether a page is in flight.
func (m Model) Loading() bool { return m.loading }

// Err is the last fetch failure, if any.
func (m Model) Err() error { return m.err }

// Pending returns the request currently in flight, if any.
func (m Model) Pending() (fetch.Request, bool) {
	if !m.open || !m.loading {
		return fetch.Request{}, false
	}
	return m.request(), true
}

// Page is the next page number to request.
func (m Model) Page() int { return m.page }

// PageSize is the number of products requested per page.
func (m Model) PageSize() int { return m.pageSize }

// Selection returns the current selection.
func (m Model) Selection() selection.State { return m.sel }

// SelectedCount is the number of selected products.
func (m Model) SelectedCount() int { return m.sel.Len() }

// Summary renders the footer text, e.g. "2 products selected".
func (m Model) Summary() string {
	n := m.SelectedCount()
	noun := "products"
	if n == 1 {
		noun = "product"
	}
	return fmt.Sprintf("%d %s selected", n, noun)
}

func (m Model) request() fetch.Request {
	return fetch.Request{Search: strings.TrimSpace(m.query), Page: m.page, Limit: m.pageSize}
}

func (m Model) candidate(id product.ID) (product.Product, bool) {
	idx := ordered.IndexOf(m.candidates, id)
	if idx < 0 {
		return product.Product{}, false
	}
	return m.candidates[idx], true
}
