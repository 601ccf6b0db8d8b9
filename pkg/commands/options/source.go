package options

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
)

// SourceOptions picks where catalog pages come from.
type SourceOptions struct {
	Mock    bool
	NoCache bool
}

func AddSourceArgs(cmd *cobra.Command, o *SourceOptions) {
	cmd.Flags().BoolVar(&o.Mock, "mock", false,
		base.Wrap80("Serve the built-in sample catalog instead of calling the API."))
	cmd.Flags().BoolVar(&o.NoCache, "no-cache", false,
		base.Wrap80("Skip the on-disk page cache."))
}

// SearchOptions
type SearchOptions struct {
	Page  int
	Limit int
	All   bool
}

func AddSearchArgs(cmd *cobra.Command, o *SearchOptions) {
	cmd.Flags().IntVar(&o.Page, "page", 0,
		"Page to fetch, starting at 0.")
	cmd.Flags().IntVar(&o.Limit, "limit", 0,
		"Products per page, defaults to api.page_size.")
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Fetch every page until a short page.")
}

// SessionOptions
type SessionOptions struct {
	Empty bool
}

func AddSessionArgs(cmd *cobra.Command, o *SessionOptions) {
	cmd.Flags().BoolVar(&o.Empty, "empty", false,
		"Start with an empty product list instead of the sample products.")
}
