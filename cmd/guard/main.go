// Package main provides the guard command line entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/address-guard/internal/cli"
	"github.com/address-guard/internal/config"
	"github.com/address-guard/internal/logging"
	"github.com/address-guard/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(cli.ExitError)
	}

	// the app moves this to stderr; stdout belongs to the rendered output
	logger := logging.NewLogger(logging.ParseLogLevel(cfg.Logging.Level), logging.FormatText)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	app := &cli.App{
		Config: cfg,
		Logger: logger,
		Open: func(ctx context.Context, cfg *config.Config) (*service.Engine, error) {
			return service.NewFromConfig(ctx, cfg, logger)
		},
	}

	code := cli.Execute(ctx, app, os.Args[1:])
	stop()
	os.Exit(code)
}
