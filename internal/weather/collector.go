package weather

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Collector runs the periodic collection cycle: for every registered city it
// fetches current conditions, normalizes them into a Reading, and appends the
// Reading to the store. Cities are processed sequentially; a failed city is
// logged and skipped until the next cycle.
type Collector struct {
	registry *Registry
	provider Provider
	readings ReadingStore
	log      *zap.Logger
}

func NewCollector(registry *Registry, provider Provider, readings ReadingStore, log *zap.Logger) *Collector {
	return &Collector{
		registry: registry,
		provider: provider,
		readings: readings,
		log:      log,
	}
}

// RunCycle performs one full pass over the registry and returns the number of
// readings persisted. Per-city failures never abort the remaining cities.
func (c *Collector) RunCycle(ctx context.Context) int {
	stored := 0
	for _, city := range c.registry.Cities() {
		cond, err := c.provider.Current(ctx, city.Lat, city.Lon)
		if err != nil {
			c.log.Warn("collect: fetch failed, skipping city",
				zap.String("city", city.Name), zap.Error(err))
			continue
		}

		reading := Reading{
			ID:           uuid.New(),
			City:         city.Name,
			TemperatureC: cond.TemperatureC,
			FeelsLikeC:   cond.FeelsLikeC,
			Condition:    cond.Condition,
			ObservedAt:   cond.ObservedAt,
		}
		if err := c.readings.SaveReading(ctx, reading); err != nil {
			c.log.Error("collect: save failed, skipping city",
				zap.String("city", city.Name), zap.Error(err))
			continue
		}
		stored++
	}

	c.log.Info("collect: cycle complete",
		zap.Int("stored", stored), zap.Int("cities", len(c.registry.Cities())))
	return stored
}
