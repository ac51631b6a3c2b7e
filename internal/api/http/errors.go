package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-notification-service/internal/apperr"
	"github.com/i474232898/weather-notification-service/internal/logger"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		return fiber.StatusBadRequest
	case apperr.KindAuth:
		return fiber.StatusUnauthorized
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// statusOf returns the status an error will be rendered with.
func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return statusFor(apperr.KindOf(err))
}

// ErrorHandler renders every error returned by a handler or middleware as
// {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		kind := apperr.KindOf(err)
		code = statusFor(kind)
		switch kind {
		case apperr.KindInternal:
			logger.GetLogger("http").Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		case apperr.KindUpstream:
			logger.GetLogger("http").Warnw("upstream failure", "path", c.Path(), "error", err)
			message = apperr.Message(err, message)
		default:
			message = apperr.Message(err, message)
		}
		if kind == apperr.KindAuth {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

// validationError turns validator output into a client-facing validation error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindValidation, "invalid request", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed on '%s=%s'", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
	}
	return apperr.Wrap(apperr.KindValidation, strings.Join(msgs, "; "), err)
}
