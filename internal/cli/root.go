package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command for the remic CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "remic",
		Short: "remic - reactive to-do state",
		Long: `A to-do list backed by a reactive state store.

Run "remic tui" for the interactive view, or use get and set to read and
write paths in a YAML, TOML or JSON state document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/remic/config.toml)")

	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))

	return cmd
}
