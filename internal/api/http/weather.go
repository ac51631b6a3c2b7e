package httpapi

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-notification-service/internal/apperr"
	"github.com/i474232898/weather-notification-service/internal/weather"
)

func (h *Handler) cityWeather(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return apperr.Validation("query parameter q is required")
	}

	payload, err := h.weather.City(c.UserContext(), q)
	if err != nil {
		if apperr.Is(err, apperr.KindUpstream) {
			return apperr.Wrap(apperr.KindValidation, "City not found", err)
		}
		return err
	}
	return sendPayload(c, payload)
}

func (h *Handler) currentWeather(c *fiber.Ctx) error {
	return h.userWeather(c, h.weather.Current)
}

func (h *Handler) forecastWeather(c *fiber.Ctx) error {
	return h.userWeather(c, h.weather.Forecast)
}

// userWeather answers a weather query for the caller's stored location.
func (h *Handler) userWeather(c *fiber.Ctx, fetch func(context.Context, weather.Coordinates) (json.RawMessage, error)) error {
	u := currentUser(c)
	if !u.HasLocation() {
		return apperr.Validation("User location not set")
	}

	coords, err := weather.ParseLocation(*u.Location)
	if err != nil {
		return err
	}

	payload, err := fetch(c.UserContext(), coords)
	if err != nil {
		return err
	}
	return sendPayload(c, payload)
}

// sendPayload writes a provider payload through unchanged.
func sendPayload(c *fiber.Ctx, payload json.RawMessage) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}
