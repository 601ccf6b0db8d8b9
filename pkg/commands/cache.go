package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/runner/cache"
)

func addCache(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "inspect or clear the search page cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	oo := &options.OutputOptions{}
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list cached search pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := cache.List{Cache: newCache(cfg), Output: oo}
			return oo.HandleError(l.Do(context.Background()))
		},
	}
	options.AddOutputArg(list, oo)

	clr := &cobra.Command{
		Use:   "clear",
		Short: "erase every cached search page",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cache.Clear{Cache: newCache(cfg)}
			return c.Do(context.Background())
		},
	}

	cmd.AddCommand(list, clr)
	topLevel.AddCommand(cmd)
}
