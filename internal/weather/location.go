package weather

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/i474232898/weather-notification-service/internal/apperr"
)

// Coordinates holds the raw latitude and longitude strings of a stored location.
// Values are passed to the provider as-is; no numeric validation is applied.
type Coordinates struct {
	Lat string
	Lon string
}

// NewCoordinates renders float coordinates in their shortest form.
func NewCoordinates(lat, lon float64) Coordinates {
	return Coordinates{
		Lat: strconv.FormatFloat(lat, 'f', -1, 64),
		Lon: strconv.FormatFloat(lon, 'f', -1, 64),
	}
}

// ParseError reports a stored location that is not of the form lat:<v>,lon:<v>.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid location format %q: %s", e.Input, e.Reason)
}

// EncodeLocation returns the canonical "lat:<lat>,lon:<lon>" form.
func EncodeLocation(c Coordinates) string {
	return "lat:" + c.Lat + ",lon:" + c.Lon
}

// ParseLocation decodes a location string. The returned error is a validation
// error wrapping a *ParseError.
func ParseLocation(s string) (Coordinates, error) {
	if s == "" {
		return Coordinates{}, invalidLocation(s, "location must not be empty")
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinates{}, invalidLocation(s, "expected 'lat:<value>,lon:<value>'")
	}

	values := make([]string, 2)
	for i, part := range parts {
		kv := strings.Split(part, ":")
		if len(kv) < 2 {
			return Coordinates{}, invalidLocation(s, fmt.Sprintf("segment %q has no value", part))
		}
		values[i] = kv[1]
	}

	return Coordinates{Lat: values[0], Lon: values[1]}, nil
}

func invalidLocation(input, reason string) error {
	return apperr.Wrap(apperr.KindValidation, "Invalid location format: "+input, &ParseError{Input: input, Reason: reason})
}
