package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// Token signing.
	SecretKey      string
	Algorithm      string
	AccessTokenTTL time.Duration

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// HTTPTimeout bounds outbound provider calls. Zero leaves the bound to the provider.
	HTTPTimeout time.Duration

	DatabaseURL string
	DBLogLevel  string

	// ScanInterval controls how often the notification scan runs.
	ScanInterval    time.Duration
	RainThresholdMM float64

	// Response cache for on-demand weather queries.
	CacheTTL  time.Duration
	CacheSize int

	CORSOrigins string
	Port        string

	LogLevel  string
	LogFormat string

	// Notification events. Publishing is disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from the environment. SECRET_KEY,
// OPEN_WEATHER_API_KEY and DATABASE_URL are required.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	var missing []string
	require := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	cfg.SecretKey = require("SECRET_KEY")
	cfg.OpenWeatherAPIKey = require("OPEN_WEATHER_API_KEY")
	cfg.DatabaseURL = require("DATABASE_URL")
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}

	cfg.Algorithm = getenvDefault("ALGORITHM", "HS256")
	switch cfg.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("invalid ALGORITHM: %q", cfg.Algorithm)
	}

	minutes := getenvInt("ACCESS_TOKEN_EXPIRE_MINUTE", 30)
	if minutes <= 0 {
		return nil, errors.New("invalid ACCESS_TOKEN_EXPIRE_MINUTE: must be positive")
	}
	cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute

	cfg.OpenWeatherBaseURL = strings.TrimRight(getenvDefault("OPEN_WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"), "/")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0s"); err != nil {
		return nil, err
	}
	if cfg.ScanInterval, err = getenvDuration("SCAN_INTERVAL", "1m"); err != nil {
		return nil, err
	}
	if cfg.ScanInterval <= 0 {
		return nil, errors.New("invalid SCAN_INTERVAL: must be positive")
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "300s"); err != nil {
		return nil, err
	}

	threshold, err := strconv.ParseFloat(getenvDefault("RAIN_THRESHOLD_MM", "2.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RAIN_THRESHOLD_MM: %w", err)
	}
	cfg.RainThresholdMM = threshold

	cfg.CacheSize = getenvInt("CACHE_SIZE", 100)
	cfg.DBLogLevel = getenvDefault("DB_LOG_LEVEL", "silent")
	cfg.CORSOrigins = getenvDefault("CORS_ORIGINS", "http://localhost:5173")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.KafkaTopic = getenvDefault("KAFKA_TOPIC", "weather.notifications")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
