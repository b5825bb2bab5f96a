package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sdujack2012/remic/internal/app"
	"github.com/sdujack2012/remic/internal/lens"
	"github.com/sdujack2012/remic/internal/state"
	"github.com/sdujack2012/remic/internal/statefile"
	"github.com/sdujack2012/remic/internal/tree"
)

// SetOptions holds flags for the set command.
type SetOptions struct {
	*RootOptions
	Output string
	Delete bool
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set <state-file> <path> [json-value]",
		Short: "Write a value at a path of a state document",
		Long: `Write a value at a dot-separated path of a state document.

The value is parsed as JSON; anything that does not parse is stored as a
plain string. Missing intermediate maps are created. The document is
rewritten in place unless --output names another file, whose extension
picks the output format. --output - prints the result instead.

Examples:
  remic set todos.yaml toDos.3 '{"description":"water plants"}'
  remic set todos.yaml toDos.3.isFinished true
  remic set todos.yaml toDos.3 --delete`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the result here instead of the input file")
	cmd.Flags().BoolVar(&opts.Delete, "delete", false, "remove the path instead of writing a value")

	return cmd
}

func runSet(cmd *cobra.Command, opts *SetOptions, args []string) error {
	input, path := args[0], args[1]
	if opts.Delete == (len(args) == 3) {
		return errors.New("set needs either a value or --delete")
	}

	doc, format, err := statefile.Load(input)
	if err != nil {
		return err
	}

	var u state.Updater[tree.Value]
	if opts.Delete {
		u = state.Func(func(v tree.Value) tree.Value { return lens.Delete(v, path) })
	} else {
		u = state.Path(path).Updater(state.Replace(parseValue(args[2])))
	}

	store := app.NewStore(doc, slog.New(slog.DiscardHandler))
	next, err := store.Update(contextOf(cmd), u)
	if err != nil {
		return err
	}

	switch opts.Output {
	case "-":
		out, err := statefile.Encode(next, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	case "":
		return statefile.Save(input, next)
	default:
		return statefile.Save(opts.Output, next)
	}
}

func parseValue(raw string) tree.Value {
	v, err := tree.ParseJSON([]byte(raw))
	if err != nil {
		return tree.String(raw)
	}
	return v
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
