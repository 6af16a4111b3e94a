package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/akulinich/weather-monitor/internal/common"
	"github.com/akulinich/weather-monitor/internal/weather"
)

const kelvinOffset = 273.15

// OpenWeatherProvider fetches current conditions from OpenWeatherMap by
// coordinate pair. The provider reports temperatures in Kelvin; readings are
// converted to Celsius and rounded to 2 decimals before leaving this package.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, timeout time.Duration) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Timeout: timeout,
			// Retry policy belongs to callers: the collector waits for the
			// next cycle, request-driven paths surface the failure.
			Backoff: BackoffConfig{
				MaxRetries:      0,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Current implements weather.Provider.
func (p *OpenWeatherProvider) Current(ctx context.Context, lat, lon float64) (weather.CurrentConditions, error) {
	if p.apiKey == "" {
		return weather.CurrentConditions{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrProviderUnavailable)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CurrentConditions{}, fmt.Errorf("%w: %v", weather.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Dt   *int64 `json:"dt"`
		Main *struct {
			Temp      *float64 `json:"temp"`
			FeelsLike *float64 `json:"feels_like"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentConditions{}, fmt.Errorf("%w: %v", weather.ErrProviderResponseInvalid, err)
	}
	if payload.Dt == nil || payload.Main == nil || payload.Main.Temp == nil ||
		payload.Main.FeelsLike == nil || len(payload.Weather) == 0 {
		return weather.CurrentConditions{}, fmt.Errorf("%w: missing required fields", weather.ErrProviderResponseInvalid)
	}

	return weather.CurrentConditions{
		TemperatureC: KelvinToCelsius(*payload.Main.Temp),
		FeelsLikeC:   KelvinToCelsius(*payload.Main.FeelsLike),
		Condition:    payload.Weather[0].Main,
		ObservedAt:   time.Unix(*payload.Dt, 0),
	}, nil
}

// KelvinToCelsius converts a Kelvin reading to Celsius rounded to 2 decimals.
func KelvinToCelsius(k float64) float64 {
	return common.Round2(k - kelvinOffset)
}
