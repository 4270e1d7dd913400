package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/address-guard/internal/diff"
	"github.com/address-guard/internal/render"
)

func newDiffCommand(app *App) *cobra.Command {
	var ignoreCase bool

	cmd := &cobra.Command{
		Use:   "diff <reference> <candidate>",
		Short: "Compare two addresses position by position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, candidate := args[0], args[1]
			cells := diff.Compare(reference, candidate, ignoreCase)

			render.Header(app.Out, app.Colors, "Address diff")
			fmt.Fprint(app.Out, "  ")
			app.Colors.Normal.Fprintln(app.Out, reference)
			render.Diff(app.Out, app.Colors, cells)
			fmt.Fprintln(app.Out)
			render.DiffSummary(app.Out, app.Colors, reference, candidate, cells)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Treat upper and lower case as equal")
	return cmd
}
