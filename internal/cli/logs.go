package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sdujack2012/remic/internal/config"
	"github.com/sdujack2012/remic/internal/logtail"
)

// LogsOptions holds flags for the logs command.
type LogsOptions struct {
	*RootOptions
	Lines int
	Level string
}

// NewLogsCommand creates the logs command.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the tail of the remic log",
		Long: `Show the last lines of the log file written by "remic tui".

The file is the configured log_file. Lines below --level are skipped.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
				return fmt.Errorf("invalid level %q: %w", opts.Level, err)
			}

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			lines, err := logtail.Read(cfg.LogFile, opts.Lines, level)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(lines) == 0 {
				fmt.Fprintf(out, "no log entries in %s\n", cfg.LogFile)
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(out, logtail.Colorize(line))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Lines, "lines", "n", 50, "number of lines to show (0 for all)")
	cmd.Flags().StringVar(&opts.Level, "level", "info", "minimum level (debug, info, warn, error)")

	return cmd
}
