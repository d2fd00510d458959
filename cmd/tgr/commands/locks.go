package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tgr/internal/app"
)

// defaultLockMaxAge is the age in days after which unheld lock files are pruned.
const defaultLockMaxAge = 7

func (c *CLI) newLocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locks",
		Short: "Manage task lock files",
	}

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete lock files that nobody holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			days, _ := cmd.Flags().GetInt("max-age-days")
			return c.app.PruneLocks(cmd.Context(), app.PruneOptions{
				ProjectOptions: c.project(),
				MaxAgeDays:     days,
			})
		},
	}
	prune.Flags().Int("max-age-days", defaultLockMaxAge, "Only delete lock files untouched for this many days")

	cmd.AddCommand(prune)
	return cmd
}
