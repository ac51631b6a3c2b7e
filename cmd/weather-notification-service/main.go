package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/weather-notification-service/internal/api/http"
	"github.com/i474232898/weather-notification-service/internal/auth"
	"github.com/i474232898/weather-notification-service/internal/cache"
	"github.com/i474232898/weather-notification-service/internal/config"
	"github.com/i474232898/weather-notification-service/internal/logger"
	"github.com/i474232898/weather-notification-service/internal/notification"
	"github.com/i474232898/weather-notification-service/internal/observability"
	"github.com/i474232898/weather-notification-service/internal/scheduler"
	"github.com/i474232898/weather-notification-service/internal/store"
	"github.com/i474232898/weather-notification-service/internal/users"
	"github.com/i474232898/weather-notification-service/internal/weather"
	"github.com/i474232898/weather-notification-service/internal/weather/providers"
)

const serviceName = "weather-notification-service"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.GetLogger("main")

	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, metrics)
	weatherSvc := weather.NewService(provider, cache.NewMemory(cfg.CacheSize, cfg.CacheTTL), metrics)

	db, err := store.Open(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		lg.Fatalw("failed to open database", "error", err)
	}
	defer func() {
		if err := store.Close(db); err != nil {
			lg.Warnw("error closing database", "error", err)
		}
	}()
	if err := store.Migrate(db); err != nil {
		lg.Fatalw("failed to migrate database", "error", err)
	}
	userRepo := store.NewUserRepository(db)
	notificationRepo := store.NewNotificationRepository(db)

	tokens, err := auth.NewTokenIssuer(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL, clockwork.NewRealClock())
	if err != nil {
		lg.Fatalw("failed to configure tokens", "error", err)
	}
	userSvc := users.NewService(userRepo, tokens)

	// The scan bypasses the response cache so every run sees fresh readings.
	var scanOpts []notification.Option
	if len(cfg.KafkaBrokers) > 0 {
		publisher := notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := publisher.Close(); err != nil {
				lg.Warnw("error closing kafka publisher", "error", err)
			}
		}()
		scanOpts = append(scanOpts, notification.WithPublisher(publisher))
		lg.Infow("publishing notifications", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	scanner := notification.NewScanner(userRepo, notificationRepo, provider, cfg.RainThresholdMM, metrics, scanOpts...)

	sched := scheduler.New(cfg.ScanInterval, scanner)
	if err := sched.Start(); err != nil {
		lg.Fatalw("failed to start scheduler", "error", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	app.Use(httpapi.Metrics(metrics))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, httpapi.NewHandler(userSvc, notificationRepo, weatherSvc))

	go func() {
		lg.Infow("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			lg.Warnw("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	lg.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Warnw("error during shutdown", "error", err)
	}
}
