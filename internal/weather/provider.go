package weather

import (
	"context"
	"time"
)

// Provider abstracts the external current-conditions source.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (CurrentConditions, error)
}

// ReadingStore persists individual observations. Readings are append-only
// and never deleted.
type ReadingStore interface {
	SaveReading(ctx context.Context, r Reading) error
	ReadingsByCity(ctx context.Context, city string) ([]Reading, error)
	ReadingsInRange(ctx context.Context, city string, from, to time.Time) ([]Reading, error)
}

// SummaryStore persists daily aggregates. Writes are idempotent per
// (city, date): a second write for the same key replaces the first.
type SummaryStore interface {
	UpsertSummary(ctx context.Context, s DailySummary) error
	SummariesByMonth(ctx context.Context, city string, month time.Month) ([]DailySummary, error)
}

// AlertStore persists threshold-breach records.
type AlertStore interface {
	SaveAlert(ctx context.Context, a Alert) error
	AlertsByDay(ctx context.Context, city string, day time.Time) ([]Alert, error)
}

// ConditionsCache is an optional short-TTL cache of the latest provider
// reading per city. A miss is (nil, nil).
type ConditionsCache interface {
	Get(ctx context.Context, city string) (*CurrentConditions, error)
	Set(ctx context.Context, city string, cond *CurrentConditions) error
}
