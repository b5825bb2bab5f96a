package cli

import (
	"github.com/spf13/cobra"

	"github.com/sdujack2012/remic/internal/app"
)

// TUIOptions holds flags for the tui command.
type TUIOptions struct {
	*RootOptions
	TodosPath string
	PrefsPath string
}

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TUIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive to-do list",
		Long: `Open the interactive to-do list.

The list is loaded from the configured source (todos_file or todos_url) and
refreshed in the background. --todos points the session at a local file
instead; edits made in the view are written back to it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: opts.ConfigPath,
				TodosPath:  opts.TodosPath,
				PrefsPath:  opts.PrefsPath,
			})
		},
	}

	cmd.Flags().StringVar(&opts.TodosPath, "todos", "", "to-do file to open instead of the configured source")
	cmd.Flags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/remic/prefs.toml)")

	return cmd
}
