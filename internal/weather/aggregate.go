package weather

import (
	"time"

	"github.com/google/uuid"

	"github.com/akulinich/weather-monitor/internal/common"
)

// Summarize folds one day's readings for a city into a DailySummary.
// The average is rounded to 2 decimals; min and max are taken as stored.
// The caller guarantees len(readings) > 0.
func Summarize(city string, day time.Time, readings []Reading) DailySummary {
	var sum float64
	maxTemp := readings[0].TemperatureC
	minTemp := readings[0].TemperatureC

	for _, r := range readings {
		sum += r.TemperatureC
		if r.TemperatureC > maxTemp {
			maxTemp = r.TemperatureC
		}
		if r.TemperatureC < minTemp {
			minTemp = r.TemperatureC
		}
	}

	return DailySummary{
		ID:                uuid.New(),
		City:              city,
		Date:              day,
		AvgTemp:           common.Round2(sum / float64(len(readings))),
		MaxTemp:           maxTemp,
		MinTemp:           minTemp,
		DominantCondition: dominantCondition(readings),
	}
}

// dominantCondition picks the condition with the highest occurrence count.
// Ties go to the condition encountered first in slice order.
func dominantCondition(readings []Reading) string {
	counts := make(map[string]int, len(readings))
	best := ""
	bestCount := 0
	for _, r := range readings {
		counts[r.Condition]++
		if counts[r.Condition] > bestCount {
			bestCount = counts[r.Condition]
			best = r.Condition
		}
	}
	return best
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
