package ui

import (
	"context"

	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/session"
	"tableflip.dev/curate/pkg/tui/app"
)

// UI opens the interactive product manager.
type UI struct {
	Source   fetch.Fetcher
	Products []product.Product
	PageSize int
}

func (u *UI) Do(ctx context.Context) error {
	sess := session.New(
		session.WithProducts(u.Products...),
		session.WithFetcher(u.Source),
		session.WithPageSize(u.PageSize),
		session.WithComponent("ui"),
	)
	return app.Run(ctx, sess, u.Source)
}
