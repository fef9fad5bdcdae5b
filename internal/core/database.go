// Package database manages the Postgres connection pool and schema.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables used by the pgx repositories.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id              SERIAL PRIMARY KEY,
	email           VARCHAR(250) NOT NULL,
	hashed_password VARCHAR(250) NOT NULL,
	session_id      VARCHAR(250),
	reset_token     VARCHAR(250)
);

CREATE TABLE IF NOT EXISTS sessions (
	session_id VARCHAR(64) PRIMARY KEY,
	user_id    VARCHAR(64) NOT NULL,
	created_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions (user_id);
`

// Connect creates a pgx connection pool for url and verifies it with a ping.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates missing tables.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
