package db

import (
	"context"
	"fmt"
	"time"

	"taskboard/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Options tune the pool. Zero values keep pgx defaults.
type Options struct {
	MaxConns        int32
	ConnMaxLifetime time.Duration
	Retry           RetryConfig
}

// Open creates the pool and waits for the database to answer a ping, retrying
// with backoff so the API can start alongside a database that is still booting.
func Open(ctx context.Context, dsn string, opts Options) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = opts.ConnMaxLifetime
	} else {
		cfg.MaxConnLifetime = 5 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	err = Retry(ctx, opts.Retry, "database ping", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pool.Ping(pingCtx)
	})
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("database connected", "max_conns", cfg.MaxConns)
	return pool, nil
}
