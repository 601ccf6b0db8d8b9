package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/fetch"
)

// List prints the cached search pages.
type List struct {
	Cache  *fetch.DiskCache
	Output *options.OutputOptions
	Out    io.Writer
}

func (l *List) Do(ctx context.Context) error {
	reqs := l.Cache.Requests(ctx)
	if l.Output != nil && l.Output.JSON {
		return l.Output.Print(reqs)
	}
	out := l.Out
	if out == nil {
		out = color.Output
	}
	if len(reqs) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(out, " no cached pages")
		return nil
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Search"), bold.Sprint("Page"), bold.Sprint("Limit"))
	for _, r := range reqs {
		tbl.AddRow(fmt.Sprintf("%q", r.Search), r.Page, r.Limit)
	}
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}

// Clear erases every cached page.
type Clear struct {
	Cache *fetch.DiskCache
	Out   io.Writer
}

func (c *Clear) Do(_ context.Context) error {
	if err := c.Cache.Clear(); err != nil {
		return err
	}
	out := c.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintln(out, "cache cleared")
	return nil
}
