package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akulinich/weather-monitor/internal/scheduler"
	"github.com/akulinich/weather-monitor/internal/store"
	"github.com/akulinich/weather-monitor/internal/weather"
)

func newTestScheduler() *scheduler.Scheduler {
	registry := weather.NewRegistry([]weather.City{
		{Name: "delhi", Lat: 1, Lon: 10},
	})
	mem := store.NewMemoryStore()
	log := zap.NewNop()

	provider := staticProvider{}
	collector := weather.NewCollector(registry, provider, mem, log)
	aggregator := weather.NewAggregator(registry, mem, mem, log)
	alerts := weather.NewAlertService(registry, provider, mem, nil, log)

	return scheduler.New(registry, collector, aggregator, alerts, time.Minute, log)
}

type staticProvider struct{}

func (staticProvider) Current(_ context.Context, _, _ float64) (weather.CurrentConditions, error) {
	return weather.CurrentConditions{TemperatureC: 20, Condition: "Clear", ObservedAt: time.Now()}, nil
}

func TestScheduler_AddWatchRejectsUnknownCity(t *testing.T) {
	s := newTestScheduler()

	_, err := s.AddAlertWatch("atlantis", 5, 40, time.Minute)
	assert.ErrorIs(t, err, weather.ErrCityNotFound)
}

func TestScheduler_AddWatchRejectsNonPositiveInterval(t *testing.T) {
	s := newTestScheduler()

	_, err := s.AddAlertWatch("delhi", 5, 40, 0)
	assert.Error(t, err)
}

func TestScheduler_AddAndRemoveWatch(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop()

	id, err := s.AddAlertWatch("delhi", 5, 40, time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	require.NoError(t, s.RemoveAlertWatch(id))
	assert.Error(t, s.RemoveAlertWatch(id), "second removal should fail")
}

func TestScheduler_RemoveUnknownWatch(t *testing.T) {
	s := newTestScheduler()

	err := s.RemoveAlertWatch(uuid.New())
	assert.Error(t, err)
}
