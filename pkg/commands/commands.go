package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/curate/pkg/config"
)

var (
	logLevel string
	cfg      config.Config
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "curate",
		Short: base.Wrap80("Curate an ordered list of products and their variants from the terminal."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadConfig()
			if err != nil {
				return err
			}
			cfg = c
			level := logLevel
			if level == "" {
				level = cfg.LogLevel()
			}
			return setupLogger(level, nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		base.Wrap80("Log level (debug, info, warn, error). Defaults to log.level from .curate.yaml."))

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addPick(topLevel)
	addSearch(topLevel)
	addReplay(topLevel)
	addCache(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
