package weather

import (
	"context"
	"encoding/json"
)

// Provider abstracts the external weather API. Payloads are the provider's raw JSON.
type Provider interface {
	Name() string
	Current(ctx context.Context, c Coordinates) (json.RawMessage, error)
	Forecast(ctx context.Context, c Coordinates) (json.RawMessage, error)
	City(ctx context.Context, name string) (json.RawMessage, error)
}

// Cache is the contract the response cache must satisfy.
type Cache interface {
	Get(key string) (json.RawMessage, bool)
	Put(key string, value json.RawMessage)
}

// CacheObserver receives cache hit/miss notifications. It may be nil.
type CacheObserver interface {
	ObserveCache(kind QueryKind, hit bool)
}
