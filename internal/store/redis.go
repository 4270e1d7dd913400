package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/address-guard/internal/config"
	"github.com/address-guard/internal/types"
)

// DefaultRedisNamespace prefixes every key the redis backend writes
const DefaultRedisNamespace = "addrguard"

// RedisBackend keeps the trust list in a hash (address -> JSON entry) and
// the history as one JSON string. Writes go through MULTI/EXEC together
// with an updated-at marker.
type RedisBackend struct {
	client    *redis.Client
	namespace string
}

// NewRedisBackend dials redis and verifies the connection
func NewRedisBackend(ctx context.Context, cfg *config.RedisConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.MaxConnections,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisBackendFromClient(client, DefaultRedisNamespace), nil
}

// NewRedisBackendFromClient wraps an existing client
func NewRedisBackendFromClient(client *redis.Client, namespace string) *RedisBackend {
	if namespace == "" {
		namespace = DefaultRedisNamespace
	}
	return &RedisBackend{client: client, namespace: namespace}
}

func (r *RedisBackend) Kind() types.StoreBackend { return types.BackendRedis }

func (r *RedisBackend) trustKey() string     { return r.namespace + ":trust" }
func (r *RedisBackend) historyKey() string   { return r.namespace + ":history" }
func (r *RedisBackend) updatedAtKey() string { return r.namespace + ":updated_at" }

// Ping checks if Redis is reachable
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBackend) Load(ctx context.Context) (*State, error) {
	st := emptyState()

	raw, err := r.client.HGetAll(ctx, r.trustKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("load trust: %w", err)
	}
	for addr, v := range raw {
		var entry types.TrustEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, fmt.Errorf("decode trust entry: %w", err)
		}
		st.Trust[addr] = entry
	}

	data, err := r.client.Get(ctx, r.historyKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if err := json.Unmarshal(data, &st.History); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if st.History == nil {
		st.History = []types.AddressCheck{}
	}
	return st, nil
}

func (r *RedisBackend) PutTrust(ctx context.Context, address string, entry types.TrustEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode trust entry: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.trustKey(), address, data)
		pipe.Set(ctx, r.updatedAtKey(), time.Now().UnixMilli(), 0)
		return nil
	})
	return err
}

func (r *RedisBackend) RemoveTrust(ctx context.Context, address string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, r.trustKey(), address)
		pipe.Set(ctx, r.updatedAtKey(), time.Now().UnixMilli(), 0)
		return nil
	})
	return err
}

func (r *RedisBackend) SaveHistory(ctx context.Context, history []types.AddressCheck) error {
	if history == nil {
		history = []types.AddressCheck{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.historyKey(), data, 0)
		pipe.Set(ctx, r.updatedAtKey(), time.Now().UnixMilli(), 0)
		return nil
	})
	return err
}

// Close closes the Redis connection
func (r *RedisBackend) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
