package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tgr/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [task[:output=dest,...]...]",
		Short: "Run tasks and copy their outputs",
		Long: `Run executes the named tasks and everything they depend on.

A request of the form task:output=dest copies the named output of the task to
dest once the task has executed or was found in the cache.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			noCache, _ := cmd.Flags().GetBool("no-cache")
			params, _ := cmd.Flags().GetStringArray("param")
			envFile, _ := cmd.Flags().GetString("env-file")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")
			watch, _ := cmd.Flags().GetBool("watch")
			verbose, _ := cmd.Flags().GetBool("verbose")
			jsonLogs, _ := cmd.Flags().GetBool("json")

			if ci {
				outputMode = "linear"
			}

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				Dir:         c.dir,
				ConfigPath:  c.configPath,
				NoCache:     noCache,
				Params:      params,
				EnvFile:     envFile,
				MetricsFile: metricsFile,
				OutputMode:  outputMode,
				Watch:       watch,
				Verbose:     verbose,
				JSON:        jsonLogs,
			})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the cache and force execution")
	cmd.Flags().StringArrayP("param", "p", nil, "Set a parameter as name=value (repeatable)")
	cmd.Flags().String("env-file", "", "Read parameters from a dotenv file")
	cmd.Flags().String("metrics-file", "", "Write run metrics in the Prometheus text format")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, compact, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().BoolP("watch", "w", false, "Re-run whenever an input file changes")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.Flags().Bool("json", false, "Log in JSON")
	return cmd
}
