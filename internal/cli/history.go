package cli

import (
	"github.com/spf13/cobra"

	"github.com/address-guard/internal/render"
)

func newHistoryCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recently checked addresses, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			render.History(app.Out, app.Colors, engine.Store().History())
			return nil
		},
	}
}
