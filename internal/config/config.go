package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akulinich/weather-monitor/internal/weather"
)

// AppConfig is the process-wide configuration, loaded once at startup.
type AppConfig struct {
	OpenWeatherAPIKey string

	// CollectInterval controls how often the collection cycle runs.
	CollectInterval time.Duration

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	// DatabaseURL selects the Postgres store; empty falls back to the
	// in-memory store.
	DatabaseURL string

	// RedisURL enables the conditions cache; empty disables it.
	RedisURL string
	CacheTTL time.Duration

	// Cities to track.
	Cities []weather.City

	Port string
}

// defaultCities is the reference registry used when WEATHER_CITIES is unset.
var defaultCities = []weather.City{
	{Name: "delhi", Lat: 28.6667, Lon: 77.2167},
	{Name: "mumbai", Lat: 19.0144, Lon: 72.8479},
	{Name: "chennai", Lat: 13.0878, Lon: 80.2785},
	{Name: "bangalore", Lat: 12.9762, Lon: 77.6033},
	{Name: "kolkata", Lat: 22.5697, Lon: 88.3697},
	{Name: "hyderabad", Lat: 17.3753, Lon: 78.4744},
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.Port = getenvDefault("PORT", "8080")

	interval, err := getenvDuration("COLLECT_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	cfg.CollectInterval = interval

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	ttl, err := getenvDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = ttl

	cities, err := loadCities()
	if err != nil {
		return nil, err
	}
	cfg.Cities = cities

	return cfg, nil
}

// loadCities parses WEATHER_CITIES, a comma-separated list of name:lat:lon
// entries, falling back to the reference registry when unset.
func loadCities() ([]weather.City, error) {
	raw := os.Getenv("WEATHER_CITIES")
	if raw == "" {
		return defaultCities, nil
	}

	var cities []weather.City
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid WEATHER_CITIES entry %q, want name:lat:lon", entry)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in WEATHER_CITIES entry %q: %w", entry, err)
		}
		lon, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in WEATHER_CITIES entry %q: %w", entry, err)
		}
		cities = append(cities, weather.City{Name: parts[0], Lat: lat, Lon: lon})
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("WEATHER_CITIES is set but contains no cities")
	}
	return cities, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
