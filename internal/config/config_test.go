package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/weather-monitor/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.CollectInterval)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "8080", cfg.Port)
	assert.Len(t, cfg.Cities, 6, "reference registry is used when WEATHER_CITIES is unset")
}

func TestLoad_ParsesCityList(t *testing.T) {
	t.Setenv("WEATHER_CITIES", "delhi:28.6667:77.2167, mumbai:19.0144:72.8479")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Len(t, cfg.Cities, 2)
	assert.Equal(t, "delhi", cfg.Cities[0].Name)
	assert.Equal(t, 28.6667, cfg.Cities[0].Lat)
	assert.Equal(t, "mumbai", cfg.Cities[1].Name)
	assert.Equal(t, 72.8479, cfg.Cities[1].Lon)
}

func TestLoad_RejectsMalformedCityEntry(t *testing.T) {
	t.Setenv("WEATHER_CITIES", "delhi:28.6667")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_RejectsInvalidInterval(t *testing.T) {
	t.Setenv("COLLECT_INTERVAL", "whenever")

	_, err := config.Load()
	require.Error(t, err)
}
