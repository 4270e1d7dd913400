package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/address-guard/internal/config"
	"github.com/address-guard/internal/types"
)

// PostgresBackend stores trust entries one row per address and the history
// as positioned rows, replaced wholesale on every save.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend opens a connection pool and verifies it
func NewPostgresBackend(ctx context.Context, cfg *config.PostgresConfig) (*PostgresBackend, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections) // #nosec G115 - MaxConnections is validated in config
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &PostgresBackend{pool: pool}, nil
}

func (p *PostgresBackend) Kind() types.StoreBackend { return types.BackendPostgres }

// Ping checks if the database is reachable
func (p *PostgresBackend) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresBackend) Load(ctx context.Context) (*State, error) {
	st := emptyState()

	rows, err := p.pool.Query(ctx, `SELECT address, added_at, label FROM trusted_addresses`)
	if err != nil {
		return nil, fmt.Errorf("query trusted addresses: %w", err)
	}
	for rows.Next() {
		var (
			addr  string
			entry types.TrustEntry
		)
		if err := rows.Scan(&addr, &entry.AddedAt, &entry.Label); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan trusted address: %w", err)
		}
		st.Trust[addr] = entry
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trusted addresses: %w", err)
	}

	rows, err = p.pool.Query(ctx, `
		SELECT id, address, checked_at, network, is_suspicious, prefix, middle, suffix, fingerprint
		FROM check_history
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c types.AddressCheck
		var network string
		if err := rows.Scan(&c.ID, &c.Address, &c.Timestamp, &network, &c.IsSuspicious,
			&c.Prefix, &c.Middle, &c.Suffix, &c.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		c.Network = types.NetworkType(network)
		st.History = append(st.History, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return st, nil
}

func (p *PostgresBackend) PutTrust(ctx context.Context, address string, entry types.TrustEntry) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO trusted_addresses (address, added_at, label)
		VALUES ($1, $2, $3)
		ON CONFLICT (address) DO UPDATE SET added_at = EXCLUDED.added_at, label = EXCLUDED.label`,
		address, entry.AddedAt, entry.Label)
	if err != nil {
		return fmt.Errorf("upsert trusted address: %w", err)
	}
	return nil
}

func (p *PostgresBackend) RemoveTrust(ctx context.Context, address string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM trusted_addresses WHERE address = $1`, address); err != nil {
		return fmt.Errorf("delete trusted address: %w", err)
	}
	return nil
}

func (p *PostgresBackend) SaveHistory(ctx context.Context, history []types.AddressCheck) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM check_history`); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}

		batch := &pgx.Batch{}
		for i, c := range history {
			batch.Queue(`
				INSERT INTO check_history
					(position, id, address, checked_at, network, is_suspicious, prefix, middle, suffix, fingerprint)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				i, c.ID, c.Address, c.Timestamp, string(c.Network), c.IsSuspicious,
				c.Prefix, c.Middle, c.Suffix, c.Fingerprint)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
		return nil
	})
}

// Close closes the connection pool
func (p *PostgresBackend) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
