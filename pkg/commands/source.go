package commands

import (
	"time"

	"github.com/rs/zerolog/log"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/config"
	"tableflip.dev/curate/pkg/fetch"
)

const cacheTTL = 24 * time.Hour

// newSource builds the catalog fetcher from configuration: the mock catalog
// or the HTTP client, fronted by the disk cache when enabled.
func newSource(c config.Config, so *options.SourceOptions) fetch.Fetcher {
	if so.Mock || c.Mock() {
		log.Debug().Msg("[CATALOG] using mock catalog")
		return fetch.NewMockFetcher()
	}
	client := fetch.NewClient(c.APIBaseURL(), c.APIKey(),
		fetch.WithTimeout(c.Timeout()),
		fetch.WithDebug(c.LogLevel() == "debug"),
	)
	if so.NoCache || !c.CacheEnabled() {
		return client
	}
	return &fetch.CachedFetcher{Next: client, Cache: newCache(c)}
}

func newCache(c config.Config) *fetch.DiskCache {
	return fetch.NewDiskCache(c.CachePath(), cacheTTL)
}
