package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/address-guard/internal/config"
	"github.com/address-guard/internal/logging"
)

func testPostgresConfig() *config.PostgresConfig {
	cfg := &config.PostgresConfig{
		Host:           "localhost",
		Port:           "5432",
		Database:       "address_guard",
		User:           "guard",
		Password:       "guard_dev_password",
		MaxConnections: 4,
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.Password = v
	}
	return cfg
}

func TestPostgresBackendRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := testPostgresConfig()
	ctx := testContext(t)

	if err := RunMigrations(cfg.DSN()); err != nil {
		t.Skipf("Skipping test - Postgres not available: %v", err)
	}

	backend, err := NewPostgresBackend(ctx, cfg)
	if err != nil {
		t.Skipf("Skipping test - Postgres not available: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	_, err = backend.pool.Exec(ctx, `TRUNCATE trusted_addresses, check_history`)
	require.NoError(t, err)

	s := Open(ctx, backend, Options{Logger: logging.Discard(), Now: fixedClock(5)})
	label := "payroll"
	require.NoError(t, s.SetTrusted(ctx, "0xAAA", &label))
	require.NoError(t, s.RecordCheck(ctx, check("0xAAA")))
	require.NoError(t, s.RecordCheck(ctx, check("0xBBB")))
	require.NoError(t, s.RecordCheck(ctx, check("0xAAA")))

	reopened := Open(ctx, backend, Options{Logger: logging.Discard()})
	entry, ok := reopened.LookupTrust("0xAAA")
	require.True(t, ok)
	require.NotNil(t, entry.Label)
	assert.Equal(t, "payroll", *entry.Label)
	assert.Equal(t, []string{"0xAAA", "0xBBB"}, addresses(reopened.History()))

	version, dirty, err := MigrationVersion(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}
