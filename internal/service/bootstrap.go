package service

import (
	"context"
	"fmt"

	"github.com/address-guard/internal/config"
	"github.com/address-guard/internal/hasher"
	"github.com/address-guard/internal/logging"
	"github.com/address-guard/internal/store"
)

// NewFromConfig verifies the digest primitive, opens the configured store
// and builds an engine over both. A blocked hasher is not an error here:
// the engine is returned and reports the block through Blocked.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	h := hasher.New(ctx, nil)
	if err := h.Err(); err != nil {
		logger.ErrorWithErr("SHA-256 self-test failed, analysis is blocked", err)
	}

	st, err := store.OpenFromConfig(ctx, cfg, logger.WithField("component", "store"))
	if err != nil {
		return nil, err
	}

	engine, err := NewEngine(h, st, OptionsFromConfig(cfg.Policy, logger.WithField("component", "engine")))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return engine, nil
}
