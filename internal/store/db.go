package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect creates a pgx pool for databaseURL and verifies connectivity.
// The pool is process-wide and lives until shutdown.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS readings (
	id            UUID PRIMARY KEY,
	city          TEXT NOT NULL,
	temperature_c DOUBLE PRECISION NOT NULL,
	feels_like_c  DOUBLE PRECISION NOT NULL,
	condition     TEXT NOT NULL,
	observed_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS readings_city_observed_idx ON readings (city, observed_at);

CREATE TABLE IF NOT EXISTS daily_summaries (
	id                 UUID PRIMARY KEY,
	city               TEXT NOT NULL,
	day                DATE NOT NULL,
	avg_temp           DOUBLE PRECISION NOT NULL,
	max_temp           DOUBLE PRECISION NOT NULL,
	min_temp           DOUBLE PRECISION NOT NULL,
	dominant_condition TEXT NOT NULL,
	UNIQUE (city, day)
);

CREATE TABLE IF NOT EXISTS alerts (
	id            UUID PRIMARY KEY,
	city          TEXT NOT NULL,
	max_threshold DOUBLE PRECISION NOT NULL,
	min_threshold DOUBLE PRECISION NOT NULL,
	current_temp  DOUBLE PRECISION NOT NULL,
	message       TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS alerts_city_created_idx ON alerts (city, created_at);
`

// EnsureSchema creates the three collections if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
