package fetch

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/curate/pkg/product"
)

// MockFetcher serves a fixed product list with case-insensitive title
// search, for offline use.
type MockFetcher struct {
	Products []product.Product
}

// NewMockFetcher serves SampleProducts.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{Products: SampleProducts()}
}

// Fetch implements Fetcher.
func (m *MockFetcher) Fetch(ctx context.Context, req Request) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	needle := strings.ToLower(strings.TrimSpace(req.Search))
	matched := make([]product.Product, 0, len(m.Products))
	for _, p := range m.Products {
		if needle == "" || strings.Contains(strings.ToLower(p.Title), needle) {
			matched = append(matched, p)
		}
	}
	start := req.Page * limit
	if req.Page < 0 || start >= len(matched) {
		return nil, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return product.CloneAll(matched[start:end]), nil
}

// SampleProducts is the starter catalog the manager opens with.
func SampleProducts() []product.Product {
	return []product.Product{
		{
			ID:    "77",
			Title: "Fog Linen Chambray Towel - Beige Stripe",
			Variants: []product.Variant{
				{ID: "1", ProductID: "77", Title: "XS / Silver", Price: "49"},
				{ID: "2", ProductID: "77", Title: "S / Silver", Price: "49"},
				{ID: "3", ProductID: "77", Title: "M / Silver", Price: "49"},
			},
			Image: &product.Image{
				ID:        "266",
				ProductID: "77",
				Src:       "https://cdn11.bigcommerce.com/s-p1xcugzp89/products/77/images/266/foglinenbeigestripetowel1b.1647248662.386.513.jpg?c=1",
			},
		},
		{
			ID:    "80",
			Title: "Orbit Terrarium - Large",
			Variants: []product.Variant{
				{ID: "64", ProductID: "80", Title: "Default Title", Price: "109"},
			},
			Image: &product.Image{
				ID:        "272",
				ProductID: "80",
				Src:       "https://cdn11.bigcommerce.com/s-p1xcugzp89/products/80/images/272/roundterrariumlarge.1647248662.386.513.jpg?c=1",
			},
		},
	}
}
