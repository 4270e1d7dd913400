// Package cli implements the guard command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/address-guard/internal/config"
	apperrors "github.com/address-guard/internal/errors"
	"github.com/address-guard/internal/logging"
	"github.com/address-guard/internal/render"
	"github.com/address-guard/internal/service"
	"github.com/address-guard/internal/types"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitError   = 1
	ExitBlocked = 2
)

// App carries what every command needs. The engine is opened on first use
// so that commands like diff run without touching the store.
type App struct {
	Out    io.Writer
	Err    io.Writer
	Colors *render.ColorScheme
	Config *config.Config
	// Logger is redirected to Err so diagnostics never mix with rendered output
	Logger *logging.Logger
	Open   func(ctx context.Context, cfg *config.Config) (*service.Engine, error)

	engine *service.Engine
}

// Engine opens the engine once and returns it
func (a *App) Engine(ctx context.Context) (*service.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}
	if a.Open == nil {
		return nil, errors.New("no engine configured")
	}
	engine, err := a.Open(ctx, a.Config)
	if err != nil {
		return nil, err
	}
	a.engine = engine
	return engine, nil
}

// Close releases the store if it was opened
func (a *App) Close() error {
	if a.engine == nil {
		return nil
	}
	return a.engine.Store().Close()
}

func (a *App) defaults() {
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Err == nil {
		a.Err = os.Stderr
	}
	if a.Colors == nil {
		a.Colors = render.DefaultColorScheme()
	}
	if a.Logger != nil {
		a.Logger.SetOutput(a.Err)
	}
}

// NewRootCommand builds the guard command tree
func NewRootCommand(app *App) *cobra.Command {
	app.defaults()

	var (
		backend string
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:   "guard",
		Short: "Verify wallet addresses before you paste them",
		Long: `guard helps you catch address poisoning and clipboard hijacking.

It classifies an address, splits it into the prefix and suffix people
actually read, draws a SHA-256 fingerprint you can compare at a glance and
warns when an address only looks like one you trust.

Trust list and history are kept in the store selected by STORE_BACKEND
(memory, file, redis or postgres).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && app.Logger != nil {
				app.Logger.SetLevel(logging.LevelDebug)
				app.Logger.Debugf("running %s", cmd.CommandPath())
			}
			if backend != "" && app.Config != nil {
				app.Config.Store.Backend = types.StoreBackend(backend)
				return app.Config.Validate()
			}
			return nil
		},
	}
	rootCmd.SetOut(app.Out)
	rootCmd.SetErr(app.Err)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Store backend override: memory, file, redis, postgres")

	rootCmd.AddCommand(
		newCheckCommand(app),
		newDiffCommand(app),
		newTrustCommand(app),
		newHistoryCommand(app),
	)
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
// A blocked digest primitive always exits with ExitBlocked.
func Execute(ctx context.Context, app *App, args []string) int {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if closeErr := app.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err == nil {
		return ExitOK
	}

	app.Colors.Error.Fprintf(app.Err, "Error: %s\n", err)
	if apperrors.IsBlocking(err) {
		return ExitBlocked
	}
	return ExitError
}

// blockedError returns the engine's blocking error so commands fail before
// printing partial output
func blockedError(ctx context.Context, engine *service.Engine) error {
	if err := engine.VerifyHashing(ctx); err != nil {
		if !apperrors.IsBlocking(err) {
			return err
		}
		return fmt.Errorf("fingerprints cannot be trusted: %w", err)
	}
	return nil
}
