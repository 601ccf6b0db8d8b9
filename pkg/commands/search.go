package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/printers"
	"tableflip.dev/curate/pkg/runner/search"
)

func addSearch(topLevel *cobra.Command) {
	so := &options.SourceOptions{}
	sr := &options.SearchOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "search the product catalog",
		Example: `
curate search towel
curate search --all --json
curate search terrarium --page 1 --limit 5 --show-id
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := sr.Limit
			if limit <= 0 {
				limit = cfg.PageSize()
			}
			s := search.Search{
				Fetcher: newSource(cfg, so),
				Request: fetch.Request{
					Search: strings.Join(args, " "),
					Page:   sr.Page,
					Limit:  limit,
				},
				All:     sr.All,
				Printer: &printers.PrettyPrint{ShowID: io.ShowID},
				Output:  oo,
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	options.AddSourceArgs(cmd, so)
	options.AddSearchArgs(cmd, sr)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
