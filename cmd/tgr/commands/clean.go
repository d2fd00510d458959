package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tgr/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached task results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			locks, _ := cmd.Flags().GetBool("locks")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{ProjectOptions: c.project()}
			switch {
			case all:
				opts.Results = true
				opts.Locks = true
			case locks:
				opts.Locks = true
			default:
				opts.Results = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("locks", "l", false, "Remove lock files instead of results")
	cmd.Flags().BoolP("all", "a", false, "Remove results and lock files")

	return cmd
}
