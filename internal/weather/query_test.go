package weather_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/weather-monitor/internal/store"
	"github.com/akulinich/weather-monitor/internal/weather"
)

var errStoreTouched = errors.New("store should not have been touched")

// touchyStore fails every call; used to prove validation happens before any
// store access.
type touchyStore struct{}

func (touchyStore) SaveReading(context.Context, weather.Reading) error { return errStoreTouched }
func (touchyStore) ReadingsByCity(context.Context, string) ([]weather.Reading, error) {
	return nil, errStoreTouched
}
func (touchyStore) ReadingsInRange(context.Context, string, time.Time, time.Time) ([]weather.Reading, error) {
	return nil, errStoreTouched
}
func (touchyStore) UpsertSummary(context.Context, weather.DailySummary) error {
	return errStoreTouched
}
func (touchyStore) SummariesByMonth(context.Context, string, time.Month) ([]weather.DailySummary, error) {
	return nil, errStoreTouched
}
func (touchyStore) SaveAlert(context.Context, weather.Alert) error { return errStoreTouched }
func (touchyStore) AlertsByDay(context.Context, string, time.Time) ([]weather.Alert, error) {
	return nil, errStoreTouched
}

func seededQueryService(t *testing.T) (*weather.QueryService, *store.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemoryStore()

	june10 := day(2024, time.June, 10)
	require.NoError(t, mem.SaveReading(ctx, reading("delhi", 31.2, "Clear", june10.Add(2*time.Hour))))
	require.NoError(t, mem.SaveReading(ctx, reading("delhi", 33.8, "Clouds", june10.Add(9*time.Hour))))
	require.NoError(t, mem.SaveReading(ctx, reading("delhi", 29.5, "Clear", day(2024, time.July, 1).Add(time.Hour))))

	require.NoError(t, mem.UpsertSummary(ctx, weather.DailySummary{
		City: "delhi", Date: june10, AvgTemp: 32.5, MaxTemp: 33.8, MinTemp: 31.2, DominantCondition: "Clear",
	}))
	require.NoError(t, mem.UpsertSummary(ctx, weather.DailySummary{
		City: "delhi", Date: day(2024, time.July, 1), AvgTemp: 29.5, MaxTemp: 29.5, MinTemp: 29.5, DominantCondition: "Clear",
	}))

	require.NoError(t, mem.SaveAlert(ctx, weather.Alert{
		City: "delhi", CurrentTemp: 41.3, MaxThreshold: 40, MinThreshold: 5,
		Message: "hot", Datetime: june10.Add(14 * time.Hour),
	}))

	return weather.NewQueryService(mem, mem, mem), mem
}

func TestQueryService_SummariesFilteredByMonth(t *testing.T) {
	q, _ := seededQueryService(t)

	summaries, err := q.DailySummaries(context.Background(), "delhi", 6, "")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, time.June, summaries[0].Date.Month())
}

func TestQueryService_SummariesCityCaseInsensitive(t *testing.T) {
	q, _ := seededQueryService(t)

	summaries, err := q.DailySummaries(context.Background(), "DELHI", 6, "")
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestQueryService_SummariesExactDate(t *testing.T) {
	q, _ := seededQueryService(t)

	summaries, err := q.DailySummaries(context.Background(), "delhi", 6, "2024-06-10")
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	_, err = q.DailySummaries(context.Background(), "delhi", 6, "2024-06-11")
	assert.ErrorIs(t, err, weather.ErrNoData)
}

func TestQueryService_SummariesEmptyResultIsNoDataNotValidation(t *testing.T) {
	q, _ := seededQueryService(t)

	_, err := q.DailySummaries(context.Background(), "atlantis", 6, "")
	assert.ErrorIs(t, err, weather.ErrNoData)
	assert.NotErrorIs(t, err, weather.ErrInvalidDateFormat)
}

func TestQueryService_InvalidMonthRejected(t *testing.T) {
	q := weather.NewQueryService(touchyStore{}, touchyStore{}, touchyStore{})

	_, err := q.DailySummaries(context.Background(), "delhi", 13, "")
	assert.ErrorIs(t, err, weather.ErrInvalidMonth)
	assert.NotErrorIs(t, err, errStoreTouched)
}

func TestQueryService_MalformedDateRejectedBeforeStore(t *testing.T) {
	q := weather.NewQueryService(touchyStore{}, touchyStore{}, touchyStore{})
	ctx := context.Background()

	_, err := q.Readings(ctx, "delhi", "2024-13-40")
	assert.ErrorIs(t, err, weather.ErrInvalidDateFormat)
	assert.NotErrorIs(t, err, errStoreTouched)

	_, err = q.DailySummaries(ctx, "delhi", 6, "not-a-date")
	assert.ErrorIs(t, err, weather.ErrInvalidDateFormat)
	assert.NotErrorIs(t, err, errStoreTouched)

	_, err = q.Alerts(ctx, "delhi", "yesterday")
	assert.ErrorIs(t, err, weather.ErrInvalidDateFormat)
	assert.NotErrorIs(t, err, errStoreTouched)
}

func TestQueryService_ReadingsDatedFiltersToCalendarDay(t *testing.T) {
	q, _ := seededQueryService(t)

	readings, err := q.Readings(context.Background(), "delhi", "2024-06-10")
	require.NoError(t, err)
	require.Len(t, readings, 2)
	for _, r := range readings {
		assert.Equal(t, 10, r.ObservedAt.Day())
	}
}

func TestQueryService_ReadingsUndatedReturnsFullHistory(t *testing.T) {
	q, _ := seededQueryService(t)

	readings, err := q.Readings(context.Background(), "delhi", "")
	require.NoError(t, err)
	assert.Len(t, readings, 3)
}

func TestQueryService_ReadingsUndatedUnknownCityIsEmptyNotError(t *testing.T) {
	q, _ := seededQueryService(t)

	readings, err := q.Readings(context.Background(), "atlantis", "")
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestQueryService_ReadingsDatedEmptyIsNoData(t *testing.T) {
	q, _ := seededQueryService(t)

	_, err := q.Readings(context.Background(), "delhi", "2024-01-01")
	assert.ErrorIs(t, err, weather.ErrNoData)
}

func TestQueryService_AlertsByDay(t *testing.T) {
	q, _ := seededQueryService(t)

	alerts, err := q.Alerts(context.Background(), "Delhi", "2024-06-10")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 41.3, alerts[0].CurrentTemp)

	_, err = q.Alerts(context.Background(), "delhi", "2024-06-11")
	assert.ErrorIs(t, err, weather.ErrNoData)
}
