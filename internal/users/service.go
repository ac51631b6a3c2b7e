package users

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/i474232898/weather-notification-service/internal/apperr"
	"github.com/i474232898/weather-notification-service/internal/auth"
	"github.com/i474232898/weather-notification-service/internal/logger"
	"github.com/i474232898/weather-notification-service/internal/store"
	"github.com/i474232898/weather-notification-service/internal/weather"
)

// Store is the user persistence the service needs.
type Store interface {
	Create(ctx context.Context, u *store.User) error
	ByID(ctx context.Context, id uint) (*store.User, error)
	ByUsername(ctx context.Context, username string) (*store.User, error)
	ByEmail(ctx context.Context, email string) (*store.User, error)
	UpdateLocation(ctx context.Context, id uint, location string) error
}

// SignupInput is a validated registration request.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Service implements registration, login, bearer authentication and location updates.
type Service struct {
	store  Store
	tokens *auth.TokenIssuer
	log    *zap.SugaredLogger
}

func NewService(store Store, tokens *auth.TokenIssuer) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		log:    logger.GetLogger("users"),
	}
}

// Signup registers a new user. A taken email or username is a conflict.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*store.User, error) {
	_, err := s.store.ByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperr.Conflict(store.MsgUserExists)
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &store.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Infow("user registered", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.store.ByUsername(ctx, username)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return "", err
	}
	if u == nil || !auth.CheckPassword(password, u.PasswordHash) {
		return "", apperr.Auth("User not found or invalid credentials")
	}

	token, err := s.tokens.IssueDefault(u.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*store.User, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	u, err := s.store.ByUsername(ctx, subject)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Auth(auth.ErrInvalidCredentials)
		}
		return nil, err
	}
	return u, nil
}

// UpdateLocation stores lat/lon for targetID. Only the owner may change it,
// even when the target exists.
func (s *Service) UpdateLocation(ctx context.Context, caller *store.User, targetID uint, lat, lon float64) error {
	target, err := s.store.ByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.ID != caller.ID {
		s.log.Warnw("location update rejected", "caller_id", caller.ID, "target_id", targetID)
		return apperr.Auth("Unauthorized access")
	}

	location := weather.EncodeLocation(weather.NewCoordinates(lat, lon))
	if err := s.store.UpdateLocation(ctx, target.ID, location); err != nil {
		return err
	}
	caller.Location = &location
	return nil
}
