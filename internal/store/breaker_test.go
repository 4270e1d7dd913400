package store

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/address-guard/internal/circuitbreaker"
	"github.com/address-guard/internal/config"
	apperrors "github.com/address-guard/internal/errors"
	"github.com/address-guard/internal/logging"
	"github.com/address-guard/internal/types"
)

func TestBreakerBackendFailsFast(t *testing.T) {
	ctx := testContext(t)
	inner := &failingBackend{writeErr: errors.New("connection reset")}
	backend := WithCircuitBreaker(inner, &circuitbreaker.Config{
		MaxFailures: 2,
		Timeout:     time.Minute,
		Logger:      logging.Discard(),
	})
	s := Open(ctx, backend, Options{Logger: logging.Discard(), Now: fixedClock(1)})

	require.Error(t, s.RecordCheck(ctx, check("a")))
	require.Error(t, s.RecordCheck(ctx, check("b")))
	assert.Equal(t, circuitbreaker.StateOpen, backend.Breaker().State())

	err := s.SetTrusted(ctx, "a", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)

	catErr := apperrors.Categorize(err)
	assert.Equal(t, apperrors.CategoryPersistence, catErr.Category)

	// memory state is still updated
	assert.True(t, s.IsTrusted("a"))
	assert.Equal(t, []string{"b", "a"}, addresses(s.History()))
	assert.Equal(t, types.BackendMemory, backend.Kind())
}

func TestNewBackendWrapsRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &config.Config{}
	cfg.Store.Backend = types.BackendRedis
	cfg.Store.ConnectAttempts = 1
	cfg.Store.BreakerMaxFailures = 7
	cfg.Redis = config.RedisConfig{Host: mr.Host(), Port: mr.Port()}

	backend, err := NewBackend(testContext(t), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	bb, ok := backend.(*BreakerBackend)
	require.True(t, ok)
	assert.Equal(t, types.BackendRedis, bb.Kind())
	assert.Equal(t, "redis", bb.Breaker().GetStats().Name)
}

func TestNewBackendLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Backend = types.BackendMemory
	backend, err := NewBackend(testContext(t), cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, backend)

	cfg.Store.Backend = "etcd"
	_, err = NewBackend(testContext(t), cfg)
	assert.Error(t, err)
}
