package commands

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	so := &options.SourceOptions{}
	se := &options.SessionOptions{}
	logFile := ""

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based product manager",
		Example: `
curate ui
curate ui --empty --mock
curate ui --log-file /tmp/curate.log --log-level debug
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			// The alt screen owns the terminal, so logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			level := logLevel
			if level == "" {
				level = cfg.LogLevel()
			}
			if err := setupLogger(level, w); err != nil {
				return err
			}

			i := ui.UI{
				Source:   newSource(cfg, so),
				PageSize: cfg.PageSize(),
			}
			if !se.Empty {
				i.Products = fetch.SampleProducts()
			}
			log.Debug().Int("products", len(i.Products)).Msg("[UI] starting")
			return i.Do(context.Background())
		},
	}

	options.AddSourceArgs(cmd, so)
	options.AddSessionArgs(cmd, se)
	cmd.Flags().StringVar(&logFile, "log-file", "", "Append logs to this file while the UI runs.")

	topLevel.AddCommand(cmd)
}
