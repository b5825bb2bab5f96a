package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdujack2012/remic/internal/lens"
	"github.com/sdujack2012/remic/internal/statefile"
	"github.com/sdujack2012/remic/internal/tree"
)

// ErrNotFound is returned by get when nothing is stored at the path.
var ErrNotFound = errors.New("path not found")

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <state-file> <path>",
		Short: "Print the value at a path of a state document",
		Long: `Print the value at a dot-separated path of a state document as JSON.

The document format follows the file extension (.json, .yaml, .yml, .toml).
Exits non-zero when the path is absent.

Example:
  remic get todos.yaml toDos.1.description`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := statefile.Load(args[0])
			if err != nil {
				return err
			}

			v, ok := lens.Read(doc, args[1])
			if !ok {
				return fmt.Errorf("%w: %q", ErrNotFound, args[1])
			}

			out, err := tree.MarshalJSON(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	return cmd
}
