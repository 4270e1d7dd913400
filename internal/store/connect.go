package store

import (
	"context"
	"fmt"

	"github.com/address-guard/internal/circuitbreaker"
	"github.com/address-guard/internal/config"
	"github.com/address-guard/internal/logging"
	"github.com/address-guard/internal/retry"
	"github.com/address-guard/internal/types"
)

// NewBackend builds the backend named by cfg.Store.Backend. Network backends
// are dialed with exponential backoff; the postgres schema is migrated
// before the backend is returned.
func NewBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	retryCfg := retry.DefaultRetryConfig()
	if cfg.Store.ConnectAttempts > 0 {
		retryCfg.MaxAttempts = cfg.Store.ConnectAttempts
	}

	switch cfg.Store.Backend {
	case types.BackendMemory:
		return NewMemoryBackend(), nil

	case types.BackendFile:
		return NewFileBackend(cfg.Store.FilePath), nil

	case types.BackendRedis:
		var backend *RedisBackend
		err := retry.Do(ctx, retryCfg, func(ctx context.Context, attempt int) error {
			b, err := NewRedisBackend(ctx, &cfg.Redis)
			if err != nil {
				return err
			}
			backend = b
			return nil
		})
		if err != nil {
			return nil, err
		}
		return WithCircuitBreaker(backend, breakerConfig(cfg)), nil

	case types.BackendPostgres:
		if err := retry.Do(ctx, retryCfg, func(ctx context.Context, attempt int) error {
			return RunMigrations(cfg.Postgres.DSN())
		}); err != nil {
			return nil, err
		}

		var backend *PostgresBackend
		err := retry.Do(ctx, retryCfg, func(ctx context.Context, attempt int) error {
			b, err := NewPostgresBackend(ctx, &cfg.Postgres)
			if err != nil {
				return err
			}
			backend = b
			return nil
		})
		if err != nil {
			return nil, err
		}
		return WithCircuitBreaker(backend, breakerConfig(cfg)), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func breakerConfig(cfg *config.Config) *circuitbreaker.Config {
	bc := circuitbreaker.DefaultConfig(string(cfg.Store.Backend))
	if cfg.Store.BreakerMaxFailures > 0 {
		bc.MaxFailures = cfg.Store.BreakerMaxFailures
	}
	if cfg.Store.BreakerTimeout > 0 {
		bc.Timeout = cfg.Store.BreakerTimeout
	}
	return bc
}

// OpenFromConfig connects the configured backend and loads the store
func OpenFromConfig(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Store, error) {
	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s store: %w", cfg.Store.Backend, err)
	}
	return Open(ctx, backend, Options{
		HistoryMax: cfg.Store.HistoryMax,
		Logger:     logger,
	}), nil
}
