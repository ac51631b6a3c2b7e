package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weather-notification-service/internal/apperr"
)

// TokenType is the value reported to clients alongside an access token.
const TokenType = "bearer"

// ErrInvalidCredentials is the message returned for every token failure.
const ErrInvalidCredentials = "invalid username or password"

// TokenIssuer signs and validates time-bounded bearer tokens carrying a username.
type TokenIssuer struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	clock      clockwork.Clock
}

// NewTokenIssuer returns an issuer for one of HS256, HS384 or HS512.
// A nil clock means wall time.
func NewTokenIssuer(secret, algorithm string, defaultTTL time.Duration, clock clockwork.Clock) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		method:     method,
		defaultTTL: defaultTTL,
		clock:      clock,
	}, nil
}

// Issue signs a token for subject expiring ttl from now. A ttl of zero yields
// a token that is already expired.
func (i *TokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	now := i.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

// IssueDefault signs a token using the configured default lifetime.
func (i *TokenIssuer) IssueDefault(subject string) (string, error) {
	return i.Issue(subject, i.defaultTTL)
}

// Validate checks signature, algorithm and expiry and returns the subject.
func (i *TokenIssuer) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return "", apperr.Wrap(apperr.KindAuth, ErrInvalidCredentials, err)
	}
	if !token.Valid {
		return "", apperr.Auth(ErrInvalidCredentials)
	}
	if claims.Subject == "" {
		return "", apperr.Wrap(apperr.KindAuth, ErrInvalidCredentials, errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
