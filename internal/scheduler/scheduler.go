package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akulinich/weather-monitor/internal/weather"
)

const jobTimeout = 2 * time.Minute

// Scheduler drives the two periodic tasks: the collection cycle on a fixed
// interval and the daily aggregation at local midnight. It also hosts alert
// watches, recurring threshold evaluations registered at runtime.
//
// Every job runs in SingletonMode so a cycle that outruns its interval is
// never entered twice concurrently.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	registry   *weather.Registry
	collector  *weather.Collector
	aggregator *weather.Aggregator
	alerts     *weather.AlertService
	interval   time.Duration
	log        *zap.Logger
}

func New(
	registry *weather.Registry,
	collector *weather.Collector,
	aggregator *weather.Aggregator,
	alerts *weather.AlertService,
	interval time.Duration,
	log *zap.Logger,
) *Scheduler {
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.Local),
		registry:   registry,
		collector:  collector,
		aggregator: aggregator,
		alerts:     alerts,
		interval:   interval,
		log:        log,
	}
}

// Start schedules the collection and aggregation jobs and starts the
// underlying scheduler in the background.
func (s *Scheduler) Start() error {
	if len(s.registry.Cities()) == 0 {
		return fmt.Errorf("no cities registered; nothing to schedule")
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.collector.RunCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling collection cycle: %w", err)
	}

	_, err = s.scheduler.Every(1).Day().At("00:00").SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		// Aggregate the day that just ended, not the day starting now.
		s.aggregator.RunDaily(ctx, time.Now().AddDate(0, 0, -1))
	})
	if err != nil {
		return fmt.Errorf("scheduling daily aggregation: %w", err)
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started",
		zap.Duration("collect_interval", s.interval),
		zap.Int("cities", len(s.registry.Cities())))
	return nil
}

// Stop stops the scheduler and cancels all future jobs, watches included.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// AddAlertWatch registers a recurring threshold evaluation for a city and
// returns the watch id. The city must be registered; the interval must be
// positive. Breaches detected by a watch are persisted exactly like
// on-demand evaluations.
func (s *Scheduler) AddAlertWatch(city string, minThreshold, maxThreshold float64, every time.Duration) (uuid.UUID, error) {
	entry, ok := s.registry.Lookup(city)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", weather.ErrCityNotFound, city)
	}
	if every <= 0 {
		return uuid.Nil, fmt.Errorf("watch interval must be positive")
	}

	id := uuid.New()
	_, err := s.scheduler.Every(every).Tag(id.String()).SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		res, err := s.alerts.Evaluate(ctx, entry.Name, minThreshold, maxThreshold)
		if err != nil {
			s.log.Warn("alert watch: evaluation failed",
				zap.String("watch_id", id.String()),
				zap.String("city", entry.Name),
				zap.Error(err))
			return
		}
		if res.Breached {
			s.log.Info("alert watch: threshold breached",
				zap.String("watch_id", id.String()),
				zap.String("city", entry.Name),
				zap.Float64("current_temp", res.Alert.CurrentTemp))
		}
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("scheduling alert watch: %w", err)
	}

	s.log.Info("alert watch registered",
		zap.String("watch_id", id.String()),
		zap.String("city", entry.Name),
		zap.Duration("interval", every))
	return id, nil
}

// RemoveAlertWatch cancels the watch with the given id.
func (s *Scheduler) RemoveAlertWatch(id uuid.UUID) error {
	if err := s.scheduler.RemoveByTag(id.String()); err != nil {
		return fmt.Errorf("%w: watch %s", weather.ErrNoData, id)
	}
	return nil
}
