package store

import (
	"context"
	"sync"
	"time"

	"github.com/akulinich/weather-monitor/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory implementation of the three
// store contracts. It backs the service when no database is configured and
// the service-level tests.
type MemoryStore struct {
	mu        sync.RWMutex
	readings  map[string][]weather.Reading
	summaries map[string][]weather.DailySummary
	alerts    map[string][]weather.Alert
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		readings:  make(map[string][]weather.Reading),
		summaries: make(map[string][]weather.DailySummary),
		alerts:    make(map[string][]weather.Alert),
	}
}

// SaveReading appends a reading to the city's history.
func (s *MemoryStore) SaveReading(_ context.Context, r weather.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings[r.City] = append(s.readings[r.City], r)
	return nil
}

// ReadingsByCity returns all readings for a city in insertion order.
func (s *MemoryStore) ReadingsByCity(_ context.Context, city string) ([]weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]weather.Reading(nil), s.readings[city]...), nil
}

// ReadingsInRange returns the readings with ObservedAt in [from, to].
func (s *MemoryStore) ReadingsInRange(_ context.Context, city string, from, to time.Time) ([]weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.Reading
	for _, r := range s.readings[city] {
		if !r.ObservedAt.Before(from) && !r.ObservedAt.After(to) {
			result = append(result, r)
		}
	}
	return result, nil
}

// UpsertSummary replaces the summary for (city, date) or appends a new one.
func (s *MemoryStore) UpsertSummary(_ context.Context, summary weather.DailySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.summaries[summary.City]
	for i, e := range existing {
		if sameDay(e.Date, summary.Date) {
			existing[i] = summary
			return nil
		}
	}
	s.summaries[summary.City] = append(existing, summary)
	return nil
}

// SummariesByMonth returns the summaries whose date falls in the given month.
func (s *MemoryStore) SummariesByMonth(_ context.Context, city string, month time.Month) ([]weather.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.DailySummary
	for _, summary := range s.summaries[city] {
		if summary.Date.Month() == month {
			result = append(result, summary)
		}
	}
	return result, nil
}

// SaveAlert appends an alert to the city's history.
func (s *MemoryStore) SaveAlert(_ context.Context, a weather.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[a.City] = append(s.alerts[a.City], a)
	return nil
}

// AlertsByDay returns the alerts recorded during day's calendar day.
func (s *MemoryStore) AlertsByDay(_ context.Context, city string, day time.Time) ([]weather.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := weather.StartOfDay(day)
	end := weather.EndOfDay(day)

	var result []weather.Alert
	for _, a := range s.alerts[city] {
		if !a.Datetime.Before(start) && !a.Datetime.After(end) {
			result = append(result, a)
		}
	}
	return result, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
