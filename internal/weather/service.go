package weather

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/i474232898/weather-notification-service/internal/logger"
)

// Service answers on-demand weather queries, consulting the response cache
// before the provider for coordinate lookups.
type Service struct {
	provider Provider
	cache    Cache
	observer CacheObserver
	log      *zap.SugaredLogger
}

// NewService creates a new Service. observer may be nil.
func NewService(provider Provider, cache Cache, observer CacheObserver) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		observer: observer,
		log:      logger.GetLogger("weather"),
	}
}

// Current returns the current-weather payload for c.
func (s *Service) Current(ctx context.Context, c Coordinates) (json.RawMessage, error) {
	return s.cached(ctx, QueryCurrent, c, s.provider.Current)
}

// Forecast returns the forecast payload for c.
func (s *Service) Forecast(ctx context.Context, c Coordinates) (json.RawMessage, error) {
	return s.cached(ctx, QueryForecast, c, s.provider.Forecast)
}

// City looks weather up by place name. City lookups are never cached.
func (s *Service) City(ctx context.Context, name string) (json.RawMessage, error) {
	return s.provider.City(ctx, name)
}

func (s *Service) cached(
	ctx context.Context,
	kind QueryKind,
	c Coordinates,
	fetch func(context.Context, Coordinates) (json.RawMessage, error),
) (json.RawMessage, error) {
	key := CacheKey(kind, c)

	if payload, ok := s.cache.Get(key); ok {
		s.log.Debugw("cache hit", "key", key)
		s.observe(kind, true)
		return payload, nil
	}
	s.observe(kind, false)

	payload, err := fetch(ctx, c)
	if err != nil {
		s.log.Warnw("provider fetch failed", "provider", s.provider.Name(), "key", key, "error", err)
		return nil, err
	}

	s.cache.Put(key, payload)
	return payload, nil
}

func (s *Service) observe(kind QueryKind, hit bool) {
	if s.observer != nil {
		s.observer.ObserveCache(kind, hit)
	}
}
