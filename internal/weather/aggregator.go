package weather

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Aggregator computes one DailySummary per city from that day's readings.
// It runs once per day; summaries are upserted by (city, date) so a re-run
// for the same day replaces rather than duplicates.
type Aggregator struct {
	registry  *Registry
	readings  ReadingStore
	summaries SummaryStore
	log       *zap.Logger
}

func NewAggregator(registry *Registry, readings ReadingStore, summaries SummaryStore, log *zap.Logger) *Aggregator {
	return &Aggregator{
		registry:  registry,
		readings:  readings,
		summaries: summaries,
		log:       log,
	}
}

// RunDaily aggregates the calendar day containing t, in t's location.
// Cities with zero readings are skipped silently: a summary requires at
// least one observation. A failure for one city does not abort the others.
// It returns the number of summaries written.
func (a *Aggregator) RunDaily(ctx context.Context, t time.Time) int {
	day := StartOfDay(t)
	end := EndOfDay(t)

	written := 0
	for _, city := range a.registry.Cities() {
		rs, err := a.readings.ReadingsInRange(ctx, city.Name, day, end)
		if err != nil {
			a.log.Error("aggregate: readings query failed",
				zap.String("city", city.Name), zap.Error(err))
			continue
		}
		if len(rs) == 0 {
			continue
		}

		summary := Summarize(city.Name, day, rs)
		if err := a.summaries.UpsertSummary(ctx, summary); err != nil {
			a.log.Error("aggregate: summary write failed",
				zap.String("city", city.Name), zap.Error(err))
			continue
		}
		written++
	}

	a.log.Info("aggregate: run complete",
		zap.Time("day", day), zap.Int("summaries", written))
	return written
}
