package store

import (
	"context"

	"github.com/address-guard/internal/circuitbreaker"
	"github.com/address-guard/internal/types"
)

// BreakerBackend fails writes fast while the wrapped backend keeps erroring
type BreakerBackend struct {
	Backend
	cb *circuitbreaker.CircuitBreaker
}

// WithCircuitBreaker wraps backend so that Load and every write go through a
// circuit breaker named after the backend kind
func WithCircuitBreaker(backend Backend, cfg *circuitbreaker.Config) *BreakerBackend {
	if cfg == nil {
		cfg = circuitbreaker.DefaultConfig(string(backend.Kind()))
	}
	if cfg.Name == "" {
		cfg.Name = string(backend.Kind())
	}
	return &BreakerBackend{Backend: backend, cb: circuitbreaker.NewCircuitBreaker(cfg)}
}

// Breaker exposes the breaker for health reporting
func (b *BreakerBackend) Breaker() *circuitbreaker.CircuitBreaker {
	return b.cb
}

func (b *BreakerBackend) Load(ctx context.Context) (*State, error) {
	var state *State
	err := b.cb.Execute(ctx, func(ctx context.Context) error {
		s, err := b.Backend.Load(ctx)
		state = s
		return err
	})
	return state, err
}

func (b *BreakerBackend) PutTrust(ctx context.Context, address string, entry types.TrustEntry) error {
	return b.cb.Execute(ctx, func(ctx context.Context) error {
		return b.Backend.PutTrust(ctx, address, entry)
	})
}

func (b *BreakerBackend) RemoveTrust(ctx context.Context, address string) error {
	return b.cb.Execute(ctx, func(ctx context.Context) error {
		return b.Backend.RemoveTrust(ctx, address)
	})
}

func (b *BreakerBackend) SaveHistory(ctx context.Context, history []types.AddressCheck) error {
	return b.cb.Execute(ctx, func(ctx context.Context) error {
		return b.Backend.SaveHistory(ctx, history)
	})
}
