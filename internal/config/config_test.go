package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/address-guard/internal/types"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("STORE_HISTORY_MAX", "25")
	t.Setenv("POLICY_GRID_SIZE", "6")
	t.Setenv("RATE_LIMIT_CLEANUP_INTERVAL", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, types.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, 25, cfg.Store.HistoryMax)
	assert.Equal(t, 6, cfg.Policy.GridSize)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.CleanupInterval)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 26, cfg.Policy.MinLength)
	assert.Equal(t, 80, cfg.Policy.MaxLength)
	assert.Equal(t, 6, cfg.Policy.PrefixLen)
	assert.Equal(t, 6, cfg.Policy.SuffixLen)
	assert.Equal(t, 20, cfg.Policy.MinAnalyzeLength)
	assert.Equal(t, 5, cfg.Store.BreakerMaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Store.BreakerTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store:     StoreConfig{Backend: types.BackendMemory, HistoryMax: 10},
			Policy:    PolicyConfig{MinLength: 26, MaxLength: 80, PrefixLen: 6, SuffixLen: 6, GridSize: 8},
			RateLimit: RateLimitConfig{RequestsPerMinute: 60, Burst: 5},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "etcd" }, wantErr: "unknown STORE_BACKEND"},
		{name: "file backend without path", mutate: func(c *Config) { c.Store.Backend = types.BackendFile }, wantErr: "STORE_FILE_PATH"},
		{name: "zero history", mutate: func(c *Config) { c.Store.HistoryMax = 0 }, wantErr: "STORE_HISTORY_MAX"},
		{name: "inverted bounds", mutate: func(c *Config) { c.Policy.MaxLength = 10 }, wantErr: "validity bounds"},
		{name: "negative prefix", mutate: func(c *Config) { c.Policy.PrefixLen = -1 }, wantErr: "non-negative"},
		{name: "zero grid", mutate: func(c *Config) { c.Policy.GridSize = 0 }, wantErr: "POLICY_GRID_SIZE"},
		{name: "no rate", mutate: func(c *Config) { c.RateLimit.Burst = 0 }, wantErr: "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: "5433", Database: "guard", User: "u", Password: "p"}
	assert.Equal(t, "postgres://u:p@db:5433/guard?sslmode=disable", p.DSN())
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_KEY", "custom")
	t.Setenv("TEST_INT", "200")
	t.Setenv("TEST_INT_INVALID", "invalid")
	t.Setenv("TEST_DURATION", "30s")
	t.Setenv("TEST_DURATION_INVALID", "soon")

	assert.Equal(t, "custom", getEnv("TEST_KEY", "default"))
	assert.Equal(t, "default", getEnv("NONEXISTENT_KEY", "default"))

	assert.Equal(t, 200, getEnvAsInt("TEST_INT", 100))
	assert.Equal(t, 100, getEnvAsInt("TEST_INT_INVALID", 100))
	assert.Equal(t, 100, getEnvAsInt("TEST_INT_NOTSET", 100))

	assert.Equal(t, 30*time.Second, getEnvAsDuration("TEST_DURATION", 10*time.Second))
	assert.Equal(t, 10*time.Second, getEnvAsDuration("TEST_DURATION_INVALID", 10*time.Second))
	assert.Equal(t, 10*time.Second, getEnvAsDuration("TEST_DURATION_NOTSET", 10*time.Second))
}
