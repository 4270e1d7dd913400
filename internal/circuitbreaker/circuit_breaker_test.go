package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/address-guard/internal/logging"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time           { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(maxFailures int) (*CircuitBreaker, *clock) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	cb := NewCircuitBreaker(&Config{
		Name:        "test",
		MaxFailures: maxFailures,
		Timeout:     10 * time.Second,
		Logger:      logging.Discard(),
		Now:         c.now,
	})
	return cb, c
}

var errBackend = errors.New("connection refused")

func fail(context.Context) error    { return errBackend }
func succeed(context.Context) error { return nil }

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, fail), errBackend)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestSuccessResetsConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(3)
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	require.NoError(t, cb.Execute(ctx, succeed))
	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)

	assert.Equal(t, StateClosed, cb.State())
	stats := cb.GetStats()
	assert.Equal(t, 5, stats.TotalCalls)
	assert.Equal(t, 4, stats.TotalFailures)
	assert.Equal(t, 2, stats.ConsecutiveFails)
}

func TestHalfOpenProbe(t *testing.T) {
	cb, c := newTestBreaker(1)
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	require.Equal(t, StateOpen, cb.State())

	c.advance(11 * time.Second)
	require.NoError(t, cb.Execute(ctx, succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb, c := newTestBreaker(1)
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	c.advance(11 * time.Second)
	assert.ErrorIs(t, cb.Execute(ctx, fail), errBackend)
	assert.Equal(t, StateOpen, cb.State())

	// the timeout restarts from the reopen
	c.advance(5 * time.Second)
	assert.ErrorIs(t, cb.Execute(ctx, succeed), ErrCircuitOpen)
}

func TestCancellationIsNotAFailure(t *testing.T) {
	cb, _ := newTestBreaker(1)

	err := cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, cb.Execute(ctx, fail), context.Canceled)
	assert.Equal(t, 1, cb.GetStats().TotalCalls)
}

func TestReset(t *testing.T) {
	cb, _ := newTestBreaker(1)
	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), succeed))
}
