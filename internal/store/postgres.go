package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akulinich/weather-monitor/internal/weather"
)

// Querier abstracts the subset of pgxpool.Pool the repository uses.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository is the Postgres-backed implementation of the three store
// contracts (readings, summaries, alerts).
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// SaveReading appends one observation. Readings are never updated or deleted.
func (r *Repository) SaveReading(ctx context.Context, reading weather.Reading) error {
	const q = `
		INSERT INTO readings (id, city, temperature_c, feels_like_c, condition, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.q.Exec(ctx, q,
		reading.ID, reading.City, reading.TemperatureC,
		reading.FeelsLikeC, reading.Condition, reading.ObservedAt,
	); err != nil {
		return fmt.Errorf("inserting reading for city %s: %w", reading.City, err)
	}
	return nil
}

// ReadingsByCity returns every stored observation for a city, oldest first.
func (r *Repository) ReadingsByCity(ctx context.Context, city string) ([]weather.Reading, error) {
	const q = `
		SELECT id, city, temperature_c, feels_like_c, condition, observed_at
		FROM readings
		WHERE city = $1
		ORDER BY observed_at
	`
	rows, err := r.q.Query(ctx, q, city)
	if err != nil {
		return nil, fmt.Errorf("querying readings for city %s: %w", city, err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

// ReadingsInRange returns the observations for a city with observed_at in
// [from, to], oldest first.
func (r *Repository) ReadingsInRange(ctx context.Context, city string, from, to time.Time) ([]weather.Reading, error) {
	const q = `
		SELECT id, city, temperature_c, feels_like_c, condition, observed_at
		FROM readings
		WHERE city = $1 AND observed_at BETWEEN $2 AND $3
		ORDER BY observed_at
	`
	rows, err := r.q.Query(ctx, q, city, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying readings for city %s: %w", city, err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

func scanReadings(rows pgx.Rows) ([]weather.Reading, error) {
	var readings []weather.Reading
	for rows.Next() {
		var rd weather.Reading
		if err := rows.Scan(&rd.ID, &rd.City, &rd.TemperatureC, &rd.FeelsLikeC, &rd.Condition, &rd.ObservedAt); err != nil {
			return nil, fmt.Errorf("scanning reading row: %w", err)
		}
		readings = append(readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reading rows: %w", err)
	}
	return readings, nil
}

// UpsertSummary writes one daily aggregate. On conflict (city, day) the
// existing row is replaced, so a re-run for the same day never duplicates.
func (r *Repository) UpsertSummary(ctx context.Context, s weather.DailySummary) error {
	const q = `
		INSERT INTO daily_summaries (id, city, day, avg_temp, max_temp, min_temp, dominant_condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (city, day) DO UPDATE
		SET avg_temp           = EXCLUDED.avg_temp,
		    max_temp           = EXCLUDED.max_temp,
		    min_temp           = EXCLUDED.min_temp,
		    dominant_condition = EXCLUDED.dominant_condition
	`
	if _, err := r.q.Exec(ctx, q,
		s.ID, s.City, s.Date, s.AvgTemp, s.MaxTemp, s.MinTemp, s.DominantCondition,
	); err != nil {
		return fmt.Errorf("upserting summary for city %s: %w", s.City, err)
	}
	return nil
}

// SummariesByMonth returns the summaries for a city whose day falls in the
// given month of any year, oldest first.
func (r *Repository) SummariesByMonth(ctx context.Context, city string, month time.Month) ([]weather.DailySummary, error) {
	const q = `
		SELECT id, city, day, avg_temp, max_temp, min_temp, dominant_condition
		FROM daily_summaries
		WHERE city = $1 AND EXTRACT(MONTH FROM day) = $2
		ORDER BY day
	`
	rows, err := r.q.Query(ctx, q, city, int(month))
	if err != nil {
		return nil, fmt.Errorf("querying summaries for city %s: %w", city, err)
	}
	defer rows.Close()

	var summaries []weather.DailySummary
	for rows.Next() {
		var s weather.DailySummary
		if err := rows.Scan(&s.ID, &s.City, &s.Date, &s.AvgTemp, &s.MaxTemp, &s.MinTemp, &s.DominantCondition); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary rows: %w", err)
	}
	return summaries, nil
}

// SaveAlert appends one threshold-breach record.
func (r *Repository) SaveAlert(ctx context.Context, a weather.Alert) error {
	const q = `
		INSERT INTO alerts (id, city, max_threshold, min_threshold, current_temp, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.q.Exec(ctx, q,
		a.ID, a.City, a.MaxThreshold, a.MinThreshold, a.CurrentTemp, a.Message, a.Datetime,
	); err != nil {
		return fmt.Errorf("inserting alert for city %s: %w", a.City, err)
	}
	return nil
}

// AlertsByDay returns the alerts recorded for a city during the calendar day
// starting at local midnight of day.
func (r *Repository) AlertsByDay(ctx context.Context, city string, day time.Time) ([]weather.Alert, error) {
	const q = `
		SELECT id, city, max_threshold, min_threshold, current_temp, message, created_at
		FROM alerts
		WHERE city = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at
	`
	start := weather.StartOfDay(day)
	rows, err := r.q.Query(ctx, q, city, start, weather.EndOfDay(day))
	if err != nil {
		return nil, fmt.Errorf("querying alerts for city %s: %w", city, err)
	}
	defer rows.Close()

	var alerts []weather.Alert
	for rows.Next() {
		var a weather.Alert
		if err := rows.Scan(&a.ID, &a.City, &a.MaxThreshold, &a.MinThreshold, &a.CurrentTemp, &a.Message, &a.Datetime); err != nil {
			return nil, fmt.Errorf("scanning alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alert rows: %w", err)
	}
	return alerts, nil
}
