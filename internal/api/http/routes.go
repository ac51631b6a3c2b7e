package httpapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-notification-service/internal/apperr"
	"github.com/i474232898/weather-notification-service/internal/auth"
	"github.com/i474232898/weather-notification-service/internal/store"
	"github.com/i474232898/weather-notification-service/internal/users"
	"github.com/i474232898/weather-notification-service/internal/weather"
)

var validate = validator.New()

// UserService is the account behaviour the handlers need.
type UserService interface {
	Signup(ctx context.Context, in users.SignupInput) (*store.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*store.User, error)
	UpdateLocation(ctx context.Context, caller *store.User, targetID uint, lat, lon float64) error
}

// NotificationStore is the per-user notification persistence the handlers need.
type NotificationStore interface {
	Create(ctx context.Context, n *store.Notification) error
	MarkAllRead(ctx context.Context, userID uint) (*store.Notification, error)
	DeleteAll(ctx context.Context, userID uint) (int64, error)
	List(ctx context.Context, userID uint) ([]store.Notification, error)
	Count(ctx context.Context, userID uint) (int64, error)
}

// WeatherService answers on-demand weather queries.
type WeatherService interface {
	Current(ctx context.Context, c weather.Coordinates) (json.RawMessage, error)
	Forecast(ctx context.Context, c weather.Coordinates) (json.RawMessage, error)
	City(ctx context.Context, name string) (json.RawMessage, error)
}

// Handler groups the HTTP handlers and their collaborators.
type Handler struct {
	users         UserService
	notifications NotificationStore
	weather       WeatherService
}

func NewHandler(users UserService, notifications NotificationStore, weather WeatherService) *Handler {
	return &Handler{
		users:         users,
		notifications: notifications,
		weather:       weather,
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h *Handler) {
	authed := AuthRequired(h.users)

	app.Post("/signup", h.signup)
	app.Post("/login", h.login)
	app.Get("/me", authed, h.me)
	app.Patch("/users/:id/location", authed, h.updateLocation)

	app.Post("/notification", authed, h.createNotification)
	app.Patch("/notifread", authed, h.markAllRead)
	app.Delete("/noitifdel", authed, h.deleteNotifications)
	app.Get("/notifications", authed, h.listNotifications)
	app.Get("/notificount", authed, h.countNotifications)

	app.Get("/weather/city", h.cityWeather)
	app.Get("/weather/current", authed, h.currentWeather)
	app.Get("/weather/forecast", authed, h.forecastWeather)
}

// bind parses the request body into dst and validates it.
func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

type signupRequest struct {
	UserName     string `json:"user_name" validate:"required,min=5,max=20"`
	UserEmail    string `json:"user_email" validate:"required,email,max=50"`
	UserPassword string `json:"user_password" validate:"required,min=8,max=72"`
}

func (h *Handler) signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	u, err := h.users.Signup(c.UserContext(), users.SignupInput{
		Username: req.UserName,
		Email:    req.UserEmail,
		Password: req.UserPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(u)
}

// loginRequest accepts the OAuth2 password form as well as JSON.
type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (h *Handler) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.users.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   auth.TokenType,
	})
}

func (h *Handler) me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

type locationRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lon *float64 `json:"lon" validate:"required,longitude"`
}

func (h *Handler) updateLocation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.Validation("invalid user id")
	}

	var req locationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.users.UpdateLocation(c.UserContext(), currentUser(c), uint(id), *req.Lat, *req.Lon); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "Location updated"})
}

type notificationRequest struct {
	Message  string `json:"message" validate:"required,max=255"`
	IsRead   bool   `json:"is_read"`
	Location string `json:"location" validate:"required,max=100"`
}

func (h *Handler) createNotification(c *fiber.Ctx) error {
	var req notificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	n := &store.Notification{
		UserID:   currentUser(c).ID,
		Message:  req.Message,
		IsRead:   req.IsRead,
		Location: req.Location,
	}
	if err := h.notifications.Create(c.UserContext(), n); err != nil {
		return err
	}
	return c.JSON(n)
}

func (h *Handler) markAllRead(c *fiber.Ctx) error {
	last, err := h.notifications.MarkAllRead(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(last)
}

func (h *Handler) deleteNotifications(c *fiber.Ctx) error {
	n, err := h.notifications.DeleteAll(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "Deleted",
		"detail": fmt.Sprintf("%d notifications deleted", n),
	})
}

func (h *Handler) listNotifications(c *fiber.Ctx) error {
	list, err := h.notifications.List(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) countNotifications(c *fiber.Ctx) error {
	n, err := h.notifications.Count(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"unread_notification_count": n})
}
