package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "show the resolved configuration",
		Example: `
curate info
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			i := info.Info{Config: cfg}
			if cfg.CacheEnabled() {
				i.Cache = newCache(cfg)
			}
			return i.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
