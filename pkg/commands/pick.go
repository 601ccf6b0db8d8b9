package commands

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/printers"
	"tableflip.dev/curate/pkg/prompt"
	"tableflip.dev/curate/pkg/runner/pick"
)

func addPick(topLevel *cobra.Command) {
	so := &options.SourceOptions{}
	se := &options.SessionOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "pick [text]",
		Short: "add a product to the list with a line-based picker",
		Example: `
curate pick
curate pick towel --mock
curate pick terrarium --empty --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pick.Pick{
				Source:   newSource(cfg, so),
				Query:    strings.Join(args, " "),
				PageSize: cfg.PageSize(),
				Chooser: &prompt.Select{
					In:  readCloser(cmd.InOrStdin()),
					Out: prompt.NopCloser(cmd.OutOrStdout()),
				},
				Printer: &printers.PrettyPrint{ShowID: io.ShowID},
				Output:  oo,
			}
			if !se.Empty {
				p.Products = fetch.SampleProducts()
			}
			return oo.HandleError(p.Do(context.Background()))
		},
	}

	options.AddSourceArgs(cmd, so)
	options.AddSessionArgs(cmd, se)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func readCloser(r io.Reader) io.ReadCloser {
	return io.NopCloser(r)
}
