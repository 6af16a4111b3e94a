package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpapi "github.com/akulinich/weather-monitor/internal/api/http"
	"github.com/akulinich/weather-monitor/internal/cache"
	"github.com/akulinich/weather-monitor/internal/config"
	"github.com/akulinich/weather-monitor/internal/logging"
	"github.com/akulinich/weather-monitor/internal/scheduler"
	"github.com/akulinich/weather-monitor/internal/store"
	"github.com/akulinich/weather-monitor/internal/weather"
	"github.com/akulinich/weather-monitor/internal/weather/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.NewLogger("weather-monitor")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// Store: Postgres when configured, in-memory otherwise. Both satisfy the
	// three store contracts.
	var (
		readings  weather.ReadingStore
		summaries weather.SummaryStore
		alerts    weather.AlertStore
	)
	if cfg.DatabaseURL != "" {
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()

		if err := store.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("schema setup failed", zap.Error(err))
		}

		repo := store.NewRepository(pool)
		readings, summaries, alerts = repo, repo, repo
		logger.Info("using postgres store")
	} else {
		mem := store.NewMemoryStore()
		readings, summaries, alerts = mem, mem, mem
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on exit")
	}

	// Optional conditions cache.
	var condCache weather.ConditionsCache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		condCache = cache.New(client, cfg.CacheTTL)
		logger.Info("conditions cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}

	registry := weather.NewRegistry(cfg.Cities)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.HTTPTimeout)

	collector := weather.NewCollector(registry, provider, readings, logger)
	aggregator := weather.NewAggregator(registry, readings, summaries, logger)
	alertSvc := weather.NewAlertService(registry, provider, alerts, condCache, logger)
	querySvc := weather.NewQueryService(readings, summaries, alerts)

	sched := scheduler.New(registry, collector, aggregator, alertSvc, cfg.CollectInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-monitor",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-monitor",
		})
	})

	httpapi.RegisterRoutes(app, querySvc, alertSvc, sched)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.Port))

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
}
