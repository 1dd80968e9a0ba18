// Package database provides the shared pgx connection pool used by the
// transaction archive and any future Postgres-backed read models.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ghuser/marketledger/pkg/logger"
)

// DB wraps a pgxpool.Pool with production-ready pool settings.
type DB struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

// New parses url, applies pool settings, connects, and verifies connectivity
// with a ping. Call Close when the application shuts down.
func New(ctx context.Context, url string, log logger.Logger) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("database: parse url: %w", err)
	}

	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	log.Info("database pool connected", "max_conns", cfg.MaxConns)

	return &DB{pool: pool, log: log}, nil
}

// Pool returns the underlying pgxpool.Pool for direct use.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Ping checks database connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	return nil
}

// Close drains and closes the connection pool.
func (d *DB) Close() {
	d.pool.Close()
	d.log.Info("database pool closed")
}

// TxFunc runs inside a transaction started by WithTx.
type TxFunc func(pgx.Tx) error

// WithTx runs fn inside a transaction. The transaction is rolled back when fn
// returns an error or panics, and committed otherwise.
func (d *DB) WithTx(ctx context.Context, fn TxFunc) (err error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("database: begin tx: %w", err)
	}

	defer func() {
		p := recover()
		switch {
		case p != nil:
			_ = tx.Rollback(ctx)
			panic(p)

		case err != nil:
			rbErr := tx.Rollback(ctx)
			if rbErr != nil {
				err = fmt.Errorf("database: rollback tx: %w. original error: %w", rbErr, err)
			}

		default:
			err = tx.Commit(ctx)
			if err != nil {
				err = fmt.Errorf("database: commit tx: %w", err)
			}
		}
	}()

	err = fn(tx)
	return
}
