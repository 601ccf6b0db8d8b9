package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/curate/pkg/config"
	"tableflip.dev/curate/pkg/fetch"
)

type Info struct {
	Config config.Config
	Cache  *fetch.DiskCache
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv(config.PathEnv); override != "" {
		_, _ = fmt.Fprintln(out, config.PathEnv+" found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(out, config.PathEnv+" env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = config.LoadConfig()
		if err != nil {
			return err
		}
	}

	key := "not set"
	if n.Config.APIKey() != "" {
		key = "set"
	}
	baseURL := n.Config.APIBaseURL()
	if baseURL == "" {
		baseURL = "(none, using mock catalog)"
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("api.base_url", baseURL)
	tbl.AddRow("api.key", key)
	tbl.AddRow("api.page_size", n.Config.PageSize())
	tbl.AddRow("api.timeout", n.Config.Timeout())
	tbl.AddRow("cache.path", n.Config.CachePath())
	tbl.AddRow("cache.enabled", n.Config.CacheEnabled())
	tbl.AddRow("log.level", n.Config.LogLevel())
	tbl.AddRow("mock", n.Config.Mock())
	_, _ = fmt.Fprintln(out, tbl)

	if n.Cache == nil {
		return nil
	}
	_, _ = fmt.Fprintf(out, "Cached pages: %d\n", len(n.Cache.Requests(ctx)))
	return nil
}
