package weather

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// City is one registry entry: a logical city name and its coordinates.
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Registry is the static set of cities the system tracks. It is built once
// at startup from configuration and never mutated afterwards.
type Registry struct {
	cities []City
	byName map[string]City
}

// NewRegistry builds a Registry. City names are normalized to lowercase;
// blank and duplicate entries are dropped.
func NewRegistry(cities []City) *Registry {
	r := &Registry{
		byName: make(map[string]City, len(cities)),
	}
	for _, c := range cities {
		c.Name = strings.ToLower(strings.TrimSpace(c.Name))
		if c.Name == "" {
			continue
		}
		if _, dup := r.byName[c.Name]; dup {
			continue
		}
		r.byName[c.Name] = c
		r.cities = append(r.cities, c)
	}
	return r
}

// Lookup resolves a city name (case-insensitive) to its registry entry.
func (r *Registry) Lookup(name string) (City, bool) {
	c, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Cities returns all registered cities in registration order.
func (r *Registry) Cities() []City {
	return r.cities
}

// Reading is one normalized weather observation for a city.
// ObservedAt is the provider's event time and is authoritative for all
// time-window filtering; ingestion time is not tracked.
type Reading struct {
	ID           uuid.UUID `json:"id"`
	City         string    `json:"city"`
	TemperatureC float64   `json:"temperatureC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	Condition    string    `json:"condition"`
	ObservedAt   time.Time `json:"observedAt"`
}

// DailySummary is one aggregate per city per calendar day.
// Date is the summarized day at local midnight, not the instant the
// aggregation job ran. Writes are upserts keyed by (city, date).
type DailySummary struct {
	ID                uuid.UUID `json:"id"`
	City              string    `json:"city"`
	Date              time.Time `json:"date"`
	AvgTemp           float64   `json:"avgTemp"`
	MaxTemp           float64   `json:"maxTemp"`
	MinTemp           float64   `json:"minTemp"`
	DominantCondition string    `json:"dominantCondition"`
}

// Alert records a temperature threshold breach detected at evaluation time.
type Alert struct {
	ID           uuid.UUID `json:"id"`
	City         string    `json:"city"`
	MaxThreshold float64   `json:"maxThreshold"`
	MinThreshold float64   `json:"minThreshold"`
	CurrentTemp  float64   `json:"currentTemp"`
	Message      string    `json:"alertMessage"`
	Datetime     time.Time `json:"datetime"`
}

// CurrentConditions is the normalized fragment returned by the provider for
// one coordinate pair. Temperatures are Celsius, rounded to 2 decimals.
type CurrentConditions struct {
	TemperatureC float64   `json:"temperatureC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	Condition    string    `json:"condition"`
	ObservedAt   time.Time `json:"observedAt"`
}
