package search

import (
	"context"
	"fmt"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/printers"
	"tableflip.dev/curate/pkg/product"
)

// Search runs one catalog query, optionally walking every page.
type Search struct {
	Fetcher fetch.Fetcher
	Request fetch.Request
	All     bool

	Printer *printers.PrettyPrint
	Output  *options.OutputOptions
}

func (s *Search) Do(ctx context.Context) error {
	found, err := s.Collect(ctx)
	if err != nil {
		return err
	}
	if s.Output != nil && s.Output.JSON {
		return s.Output.Print(found)
	}
	pp := s.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	title := "Results"
	if s.Request.Search != "" {
		title = fmt.Sprintf("Results for %q", s.Request.Search)
	}
	pp.TitleWithCount(title, len(found))
	pp.Products(found...)
	return nil
}

// Collect fetches the requested page, or every page from it onwards when All
// is set. Duplicate ids across pages are skipped.
func (s *Search) Collect(ctx context.Context) ([]product.Product, error) {
	req := s.Request
	if req.Limit <= 0 {
		req.Limit = fetch.DefaultPageSize
	}
	var found []product.Product
	seen := map[product.ID]bool{}
	for {
		page, err := s.Fetcher.Fetch(ctx, req)
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			found = append(found, p)
		}
		if !s.All || req.IsLastPage(len(page)) {
			return found, nil
		}
		req.Page++
	}
}
