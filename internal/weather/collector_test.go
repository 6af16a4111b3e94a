package weather_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akulinich/weather-monitor/internal/store"
	"github.com/akulinich/weather-monitor/internal/weather"
)

// fakeProvider serves canned conditions per city coordinate and can be told
// to fail for specific coordinates.
type fakeProvider struct {
	conditions map[float64]weather.CurrentConditions // keyed by latitude
	failFor    map[float64]error
	calls      int
}

func (p *fakeProvider) Current(_ context.Context, lat, _ float64) (weather.CurrentConditions, error) {
	p.calls++
	if err, ok := p.failFor[lat]; ok {
		return weather.CurrentConditions{}, err
	}
	cond, ok := p.conditions[lat]
	if !ok {
		return weather.CurrentConditions{}, fmt.Errorf("%w: no canned reading", weather.ErrProviderUnavailable)
	}
	return cond, nil
}

func testRegistry() *weather.Registry {
	return weather.NewRegistry([]weather.City{
		{Name: "delhi", Lat: 1, Lon: 10},
		{Name: "mumbai", Lat: 2, Lon: 20},
		{Name: "chennai", Lat: 3, Lon: 30},
	})
}

func TestCollector_PersistsOneReadingPerCity(t *testing.T) {
	observed := time.Now().Add(-time.Minute)
	provider := &fakeProvider{
		conditions: map[float64]weather.CurrentConditions{
			1: {TemperatureC: 30.5, FeelsLikeC: 33.1, Condition: "Clear", ObservedAt: observed},
			2: {TemperatureC: 27.12, FeelsLikeC: 29.8, Condition: "Rain", ObservedAt: observed},
			3: {TemperatureC: 29.0, FeelsLikeC: 31.0, Condition: "Clouds", ObservedAt: observed},
		},
	}
	mem := store.NewMemoryStore()

	c := weather.NewCollector(testRegistry(), provider, mem, zap.NewNop())
	stored := c.RunCycle(context.Background())

	assert.Equal(t, 3, stored)

	rs, err := mem.ReadingsByCity(context.Background(), "mumbai")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "mumbai", rs[0].City)
	assert.Equal(t, 27.12, rs[0].TemperatureC)
	assert.Equal(t, "Rain", rs[0].Condition)
	assert.Equal(t, observed, rs[0].ObservedAt)
	assert.NotEqual(t, rs[0].ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestCollector_FailedCityIsSkippedOthersSucceed(t *testing.T) {
	observed := time.Now()
	provider := &fakeProvider{
		conditions: map[float64]weather.CurrentConditions{
			1: {TemperatureC: 30, Condition: "Clear", ObservedAt: observed},
			3: {TemperatureC: 29, Condition: "Clouds", ObservedAt: observed},
		},
		failFor: map[float64]error{
			2: weather.ErrProviderUnavailable,
		},
	}
	mem := store.NewMemoryStore()

	c := weather.NewCollector(testRegistry(), provider, mem, zap.NewNop())
	stored := c.RunCycle(context.Background())

	assert.Equal(t, 2, stored)
	assert.Equal(t, 3, provider.calls, "every city attempted despite the failure")

	failed, err := mem.ReadingsByCity(context.Background(), "mumbai")
	require.NoError(t, err)
	assert.Empty(t, failed)

	for _, city := range []string{"delhi", "chennai"} {
		rs, err := mem.ReadingsByCity(context.Background(), city)
		require.NoError(t, err)
		assert.Len(t, rs, 1, city)
	}
}
