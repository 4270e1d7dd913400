package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/address-guard/internal/render"
)

func newTrustCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Manage trusted addresses",
	}
	cmd.AddCommand(
		newTrustAddCommand(app),
		newTrustRemoveCommand(app),
		newTrustListCommand(app),
		newTrustFindCommand(app),
	)
	return cmd
}

func newTrustAddCommand(app *App) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "add <address>",
		Short: "Mark an address as trusted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}

			var labelPtr *string
			if cmd.Flags().Changed("label") {
				labelPtr = &label
			}
			address := strings.TrimSpace(args[0])
			if err := engine.Trust(cmd.Context(), address, labelPtr); err != nil {
				return err
			}

			app.Colors.Success.Fprint(app.Out, "Trusted ")
			render.Segments(app.Out, app.Colors, engine.Segments(address))
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "Label shown next to the address")
	return cmd
}

func newTrustRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <address>",
		Aliases: []string{"rm"},
		Short:   "Remove an address from the trust list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}

			address := strings.TrimSpace(args[0])
			if _, ok := engine.Store().LookupTrust(address); !ok {
				app.Colors.Warning.Fprintf(app.Out, "%s was not trusted\n", engine.Segments(address).Masked())
				return nil
			}
			if err := engine.Untrust(cmd.Context(), address); err != nil {
				return err
			}
			app.Colors.Success.Fprintf(app.Out, "Removed %s\n", engine.Segments(address).Masked())
			return nil
		},
	}
}

func newTrustListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List trusted addresses, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			render.TrustList(app.Out, app.Colors, engine.Store().TrustedAddresses())
			return nil
		},
	}
}

func newTrustFindCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Find at most 10 trusted addresses matching a label or address fragment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			matches := findTrusted(query, FuzzySource(engine.Store().TrustedAddresses()))
			if len(matches) == 0 {
				return fmt.Errorf("no trusted address matches '%s'", query)
			}

			app.Colors.Label.Fprintf(app.Out, "%8s  Address\n", "Score")
			app.Colors.Label.Fprintln(app.Out, strings.Repeat("-", 24))
			for _, m := range matches {
				fmt.Fprintf(app.Out, "%8d  ", m.Score)
				render.Segments(app.Out, app.Colors, engine.Segments(m.Entry.Address))
				if m.Entry.Label != nil {
					app.Colors.Normal.Fprintf(app.Out, "%10s%s\n", "", *m.Entry.Label)
				}
			}
			return nil
		},
	}
}
