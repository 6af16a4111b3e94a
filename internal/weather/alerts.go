package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EvaluationResult is the outcome of one threshold evaluation.
// Alert is non-nil only when a breach was recorded.
type EvaluationResult struct {
	Breached bool   `json:"breached"`
	Message  string `json:"message"`
	Alert    *Alert `json:"alert,omitempty"`
}

// AlertService evaluates temperature thresholds against a live reading and
// persists an Alert on breach. It always uses the provider (via the optional
// cache), never the reading store: an evaluation reflects conditions now,
// not at the last collection cycle.
type AlertService struct {
	registry *Registry
	provider Provider
	alerts   AlertStore
	cache    ConditionsCache // may be nil
	log      *zap.Logger
	now      func() time.Time
}

func NewAlertService(registry *Registry, provider Provider, alerts AlertStore, cache ConditionsCache, log *zap.Logger) *AlertService {
	return &AlertService{
		registry: registry,
		provider: provider,
		alerts:   alerts,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// Evaluate checks the current temperature for city against [minThreshold,
// maxThreshold]. Outside the band it persists an Alert and returns it;
// inside it reports without persisting anything.
func (s *AlertService) Evaluate(ctx context.Context, city string, minThreshold, maxThreshold float64) (EvaluationResult, error) {
	entry, ok := s.registry.Lookup(city)
	if !ok {
		return EvaluationResult{}, fmt.Errorf("%w: %s", ErrCityNotFound, strings.ToLower(city))
	}

	cond, err := s.currentConditions(ctx, entry)
	if err != nil {
		return EvaluationResult{}, err
	}

	if cond.TemperatureC <= maxThreshold && cond.TemperatureC >= minThreshold {
		return EvaluationResult{
			Message: "temperature is within the specified thresholds",
		}, nil
	}

	alert := Alert{
		ID:           uuid.New(),
		City:         entry.Name,
		MaxThreshold: maxThreshold,
		MinThreshold: minThreshold,
		CurrentTemp:  cond.TemperatureC,
		Message: fmt.Sprintf("Alert! Temperature in %s is %.2f°C, which is outside the specified thresholds.",
			entry.Name, cond.TemperatureC),
		Datetime: s.now(),
	}
	if err := s.alerts.SaveAlert(ctx, alert); err != nil {
		return EvaluationResult{}, fmt.Errorf("saving alert: %w", err)
	}

	return EvaluationResult{
		Breached: true,
		Message:  "alert created",
		Alert:    &alert,
	}, nil
}

// currentConditions consults the cache first when one is wired; a live fetch
// refreshes the cache. Cache failures are logged, never fatal.
func (s *AlertService) currentConditions(ctx context.Context, city City) (CurrentConditions, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, city.Name)
		if err != nil {
			s.log.Warn("alerts: cache get failed", zap.String("city", city.Name), zap.Error(err))
		}
		if cached != nil {
			return *cached, nil
		}
	}

	cond, err := s.provider.Current(ctx, city.Lat, city.Lon)
	if err != nil {
		return CurrentConditions{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, city.Name, &cond); err != nil {
			s.log.Warn("alerts: cache set failed", zap.String("city", city.Name), zap.Error(err))
		}
	}
	return cond, nil
}
