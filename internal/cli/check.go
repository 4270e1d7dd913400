package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/address-guard/internal/render"
	"github.com/address-guard/internal/service"
)

var (
	errTooShort    = errors.New("input is too short to be an address")
	errKeyMismatch = errors.New("unlock key does not match the last 3 characters")
)

func newCheckCommand(app *App) *cobra.Command {
	var (
		noRecord bool
		asJSON   bool
		key      string
	)

	cmd := &cobra.Command{
		Use:   "check <address>",
		Short: "Analyze an address and record it in history",
		Long: `Analyze an address: network, shape, trust score, fingerprint and any
trusted address it imitates.

With --unlock the last 3 characters you typed are checked against the
address, the same step that gates copying in the browser extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, err := app.Engine(ctx)
			if err != nil {
				return err
			}
			if err := blockedError(ctx, engine); err != nil {
				return err
			}

			var res *service.Result
			if noRecord {
				res, err = engine.Inspect(ctx, args[0])
			} else {
				res, err = engine.Analyze(ctx, args[0])
			}
			if err != nil {
				return err
			}
			if res == nil {
				return fmt.Errorf("%w (minimum %d characters)", errTooShort, engine.MinAnalyzeLength())
			}

			if asJSON {
				enc := json.NewEncoder(app.Out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				render.Result(app.Out, app.Colors, res)
				if !noRecord && !res.Saved {
					app.Colors.Warning.Fprintln(app.Out, "  history could not be saved")
				}
			}

			if !cmd.Flags().Changed("unlock") {
				return nil
			}
			if !service.VerifyUnlockKey(res.Check.Address, key) {
				return errKeyMismatch
			}
			app.Colors.Success.Fprint(app.Out, "  Unlocked. ")
			app.Colors.Normal.Fprint(app.Out, "After pasting, confirm it ends with ")
			app.Colors.Key.Fprintf(app.Out, "…%s\n", service.CopyTail(res.Check.Address))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Analyze without adding the address to history")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	cmd.Flags().StringVar(&key, "unlock", "", "Last 3 characters of the address, to unlock copying")
	return cmd
}
