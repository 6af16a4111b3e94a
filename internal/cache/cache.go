package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akulinich/weather-monitor/internal/weather"
)

const defaultTTL = 5 * time.Minute

// ConditionsCache holds the latest provider reading per city for a short TTL
// so that repeated alert evaluations between collection cycles do not hammer
// the provider.
type ConditionsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New constructs a ConditionsCache. A non-positive ttl falls back to 5 minutes.
func New(client *redis.Client, ttl time.Duration) *ConditionsCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ConditionsCache{client: client, ttl: ttl}
}

func key(city string) string {
	return "conditions:" + strings.ToLower(strings.TrimSpace(city))
}

// Get retrieves the cached conditions for a city.
// Returns nil, nil on a cache miss (not an error).
func (c *ConditionsCache) Get(ctx context.Context, city string) (*weather.CurrentConditions, error) {
	val, err := c.client.Get(ctx, key(city)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for city %s: %w", city, err)
	}

	var cond weather.CurrentConditions
	if err := json.Unmarshal([]byte(val), &cond); err != nil {
		return nil, fmt.Errorf("unmarshaling cached conditions for city %s: %w", city, err)
	}
	return &cond, nil
}

// Set stores the conditions for a city with the configured TTL.
func (c *ConditionsCache) Set(ctx context.Context, city string, cond *weather.CurrentConditions) error {
	if cond == nil {
		return nil
	}

	b, err := json.Marshal(cond)
	if err != nil {
		return fmt.Errorf("marshaling conditions for city %s: %w", city, err)
	}

	if err := c.client.Set(ctx, key(city), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for city %s: %w", city, err)
	}
	return nil
}
