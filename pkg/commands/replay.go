package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/printers"
	"tableflip.dev/curate/pkg/runner/replay"
)

func addReplay(topLevel *cobra.Command) {
	so := &options.SourceOptions{}
	se := &options.SessionOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}
	verbose := false
	watching := false

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "apply a YAML script of intents and print the result",
		Long: `Replay applies a YAML list of intents to a session seeded with the sample
products, then prints the final state. Supported ops: add, remove, replace,
remove-variant, discount, reorder, reorder-variant, drag, expand, open-picker,
close-picker, search, next-page, select-product, select-variant, confirm.

Rows created by "add" get the ids new-1, new-2, ...`,
		Example: `
curate replay script.yaml
curate replay script.yaml --json --mock
curate replay script.yaml --watch --verbose
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly one script file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r := replay.Replay{
				Path:     args[0],
				Fetcher:  newSource(cfg, so),
				PageSize: cfg.PageSize(),
				Verbose:  verbose,
				Printer:  &printers.PrettyPrint{ShowID: io.ShowID},
				Output:   oo,
			}
			if !se.Empty {
				r.Products = fetch.SampleProducts()
			}
			if watching {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				if err := r.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}

	options.AddSourceArgs(cmd, so)
	options.AddSessionArgs(cmd, se)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every step and why it was ignored.")
	cmd.Flags().BoolVarP(&watching, "watch", "w", false, "Replay again whenever the script changes.")
	topLevel.AddCommand(cmd)
}
