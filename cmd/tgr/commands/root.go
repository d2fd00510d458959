// Package commands implements the CLI commands for the tgr build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/tgr/internal/app"
	"go.trai.ch/tgr/internal/build"
)

// CLI represents the command line interface for tgr.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	configPath string
	dir        string
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, args []string, opts app.RunOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	PruneLocks(ctx context.Context, opts app.PruneOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "tgr",
		Short:         "A content-addressed task graph runner",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to the tgr.yaml file (default: search upwards)")
	rootCmd.PersistentFlags().StringVarP(&c.dir, "dir", "C", "", "Directory to search the configuration from")

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newLocksCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) project() app.ProjectOptions {
	return app.ProjectOptions{Dir: c.dir, ConfigPath: c.configPath}
}
