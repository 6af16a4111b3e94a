package weather

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// QueryService is the read-only surface over the three stores. It validates
// filters before touching any store and never writes. City values are
// lowercased but not checked against the registry: an unknown city is simply
// an empty result.
type QueryService struct {
	readings  ReadingStore
	summaries SummaryStore
	alerts    AlertStore
}

func NewQueryService(readings ReadingStore, summaries SummaryStore, alerts AlertStore) *QueryService {
	return &QueryService{
		readings:  readings,
		summaries: summaries,
		alerts:    alerts,
	}
}

// DailySummaries returns the summaries for city whose date falls in month.
// A non-empty date narrows the result to that exact day and must be
// YYYY-MM-DD. An empty match is ErrNoData, distinct from a malformed filter.
func (q *QueryService) DailySummaries(ctx context.Context, city string, month int, date string) ([]DailySummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	var day time.Time
	if date != "" {
		var err error
		if day, err = parseDay(date); err != nil {
			return nil, err
		}
	}

	city = strings.ToLower(strings.TrimSpace(city))
	summaries, err := q.summaries.SummariesByMonth(ctx, city, time.Month(month))
	if err != nil {
		return nil, fmt.Errorf("querying summaries: %w", err)
	}

	if date != "" {
		filtered := summaries[:0]
		for _, s := range summaries {
			if sameDay(s.Date, day) {
				filtered = append(filtered, s)
			}
		}
		summaries = filtered
	}

	if len(summaries) == 0 {
		return nil, ErrNoData
	}
	return summaries, nil
}

// Readings returns the stored observations for city. With an empty date the
// full history is returned, even when empty. A non-empty date must be
// YYYY-MM-DD and narrows to [00:00:00, 23:59:59] local on that day; a dated
// query matching nothing is ErrNoData.
func (q *QueryService) Readings(ctx context.Context, city string, date string) ([]Reading, error) {
	city = strings.ToLower(strings.TrimSpace(city))

	if date == "" {
		readings, err := q.readings.ReadingsByCity(ctx, city)
		if err != nil {
			return nil, fmt.Errorf("querying readings: %w", err)
		}
		return readings, nil
	}

	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}

	readings, err := q.readings.ReadingsInRange(ctx, city, day, EndOfDay(day))
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	if len(readings) == 0 {
		return nil, ErrNoData
	}
	return readings, nil
}

// Alerts returns the alerts recorded for city on the given calendar day.
// The date is required and may be YYYY-MM-DD or RFC3339.
func (q *QueryService) Alerts(ctx context.Context, city string, date string) ([]Alert, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}

	city = strings.ToLower(strings.TrimSpace(city))
	alerts, err := q.alerts.AlertsByDay(ctx, city, day)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	if len(alerts) == 0 {
		return nil, ErrNoData
	}
	return alerts, nil
}

// parseDay accepts YYYY-MM-DD or RFC3339 and returns local midnight of that
// calendar day. Anything else is ErrInvalidDateFormat.
func parseDay(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return StartOfDay(t.Local()), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
