// Package config provides configuration management for the address guard.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/address-guard/internal/types"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Policy    PolicyConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// StoreConfig selects and sizes the trust/history store
type StoreConfig struct {
	Backend    types.StoreBackend
	FilePath   string
	HistoryMax int
	// ConnectAttempts bounds retries when dialing redis/postgres
	ConnectAttempts int
	// Consecutive write failures before redis/postgres writes fail fast,
	// and how long they do so
	BreakerMaxFailures int
	BreakerTimeout     time.Duration
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// DSN returns the postgres connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// PolicyConfig holds the address analysis policy
type PolicyConfig struct {
	MinLength        int
	MaxLength        int
	PrefixLen        int
	SuffixLen        int
	GridSize         int
	MinAnalyzeLength int
}

// RateLimitConfig holds per-client API rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	CleanupInterval   time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env file is optional - environment variables can be set directly
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Store: StoreConfig{
			Backend:            types.StoreBackend(getEnv("STORE_BACKEND", string(types.BackendFile))),
			FilePath:           getEnv("STORE_FILE_PATH", defaultStorePath()),
			HistoryMax:         getEnvAsInt("STORE_HISTORY_MAX", 10),
			ConnectAttempts:    getEnvAsInt("STORE_CONNECT_ATTEMPTS", 3),
			BreakerMaxFailures: getEnvAsInt("STORE_BREAKER_MAX_FAILURES", 5),
			BreakerTimeout:     getEnvAsDuration("STORE_BREAKER_TIMEOUT", 30*time.Second),
		},
		Postgres: PostgresConfig{
			Host:           getEnv("POSTGRES_HOST", "localhost"),
			Port:           getEnv("POSTGRES_PORT", "5432"),
			Database:       getEnv("POSTGRES_DB", "address_guard"),
			User:           getEnv("POSTGRES_USER", "guard"),
			Password:       getEnv("POSTGRES_PASSWORD", ""),
			MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 10),
		},
		Redis: RedisConfig{
			Host:           getEnv("REDIS_HOST", "localhost"),
			Port:           getEnv("REDIS_PORT", "6379"),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getEnvAsInt("REDIS_DB", 0),
			MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 10),
		},
		Policy: PolicyConfig{
			MinLength:        getEnvAsInt("POLICY_MIN_LENGTH", 26),
			MaxLength:        getEnvAsInt("POLICY_MAX_LENGTH", 80),
			PrefixLen:        getEnvAsInt("POLICY_PREFIX_LEN", 6),
			SuffixLen:        getEnvAsInt("POLICY_SUFFIX_LEN", 6),
			GridSize:         getEnvAsInt("POLICY_GRID_SIZE", 8),
			MinAnalyzeLength: getEnvAsInt("POLICY_MIN_ANALYZE_LENGTH", 20),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
			CleanupInterval:   getEnvAsDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// Validate rejects configurations the guard cannot run with
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case types.BackendMemory, types.BackendRedis, types.BackendPostgres:
	case types.BackendFile:
		if c.Store.FilePath == "" {
			return fmt.Errorf("STORE_FILE_PATH is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Store.HistoryMax < 1 {
		return fmt.Errorf("STORE_HISTORY_MAX must be at least 1, got %d", c.Store.HistoryMax)
	}
	if c.Policy.MinLength < 0 || c.Policy.MaxLength < c.Policy.MinLength {
		return fmt.Errorf("invalid validity bounds [%d, %d]", c.Policy.MinLength, c.Policy.MaxLength)
	}
	if c.Policy.PrefixLen < 0 || c.Policy.SuffixLen < 0 {
		return fmt.Errorf("prefix and suffix lengths must be non-negative")
	}
	if c.Policy.GridSize < 1 {
		return fmt.Errorf("POLICY_GRID_SIZE must be positive, got %d", c.Policy.GridSize)
	}
	if c.RateLimit.RequestsPerMinute < 1 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate limit must allow at least one request")
	}
	return nil
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "address-guard.json"
	}
	return dir + string(os.PathSeparator) + "address-guard" + string(os.PathSeparator) + "store.json"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
