package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-notification-service/internal/apperr"
	"github.com/i474232898/weather-notification-service/internal/weather"
)

// UpstreamRecorder receives the outcome of every provider call. It may be nil.
type UpstreamRecorder interface {
	ObserveUpstream(endpoint string, err error)
}

// OpenWeatherProvider implements weather.Provider for the OpenWeatherMap 2.5 API.
type OpenWeatherProvider struct {
	name     string
	apiKey   string
	baseURL  string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
	recorder UpstreamRecorder
}

// NewOpenWeatherProvider creates a provider. baseURL is the API root,
// e.g. https://api.openweathermap.org/data/2.5.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string, recorder UpstreamRecorder) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:     "openweathermap",
		apiKey:   apiKey,
		baseURL:  baseURL,
		client:   client,
		circuit:  newCircuitBreaker("openweather"),
		recorder: recorder,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Current(ctx context.Context, c weather.Coordinates) (json.RawMessage, error) {
	return p.get(ctx, "weather", coordinateValues(c))
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, c weather.Coordinates) (json.RawMessage, error) {
	return p.get(ctx, "forecast", coordinateValues(c))
}

func (p *OpenWeatherProvider) City(ctx context.Context, name string) (json.RawMessage, error) {
	values := url.Values{}
	values.Set("q", name)
	return p.get(ctx, "weather", values)
}

func coordinateValues(c weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("lat", c.Lat)
	values.Set("lon", c.Lon)
	return values
}

func (p *OpenWeatherProvider) get(ctx context.Context, endpoint string, values url.Values) (json.RawMessage, error) {
	if p.apiKey == "" {
		return nil, apperr.Upstream("Failed to fetch weather data", fmt.Errorf("openweather api key is not configured"))
	}

	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())

	body, err := doRequest(ctx, p.client, p.circuit, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
	if p.recorder != nil {
		p.recorder.ObserveUpstream(endpoint, err)
	}
	if err != nil {
		return nil, apperr.Upstream("Failed to fetch weather data", fmt.Errorf("openweather %s: %w", endpoint, err))
	}

	if !json.Valid(body) {
		return nil, apperr.Upstream("Failed to fetch weather data", fmt.Errorf("openweather %s: response is not valid JSON", endpoint))
	}
	return json.RawMessage(body), nil
}
