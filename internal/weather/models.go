package weather

import (
	"encoding/json"
	"fmt"
)

// QueryKind distinguishes the provider endpoints a payload came from.
type QueryKind string

const (
	QueryCurrent  QueryKind = "current"
	QueryForecast QueryKind = "forecast"
)

// CacheKey returns the response cache key for a coordinate query.
func CacheKey(kind QueryKind, c Coordinates) string {
	return string(kind) + ":" + c.Lat + ":" + c.Lon
}

// Reading is the part of a current-weather payload the notification scan inspects.
// The payload itself is always passed on unmodified.
type Reading struct {
	Name string `json:"name"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

// ReadCurrent extracts the place name and one-hour rainfall from a
// current-weather payload. A missing rain block reads as zero.
func ReadCurrent(payload json.RawMessage) (Reading, error) {
	var r Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		return Reading{}, fmt.Errorf("decode weather payload: %w", err)
	}
	return r, nil
}
