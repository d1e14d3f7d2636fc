package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	httpapi "github.com/flightnet/envbridge/internal/api/http"
	"github.com/flightnet/envbridge/internal/config"
	"github.com/flightnet/envbridge/internal/flightenv"
	"github.com/flightnet/envbridge/internal/flightenv/fetchers"
	"github.com/flightnet/envbridge/internal/watch"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "envbridge").Logger()

	// Load configuration (including .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Domain fetchers with resilience (backoff + circuit breaker). Missing
	// credentials downgrade a fetcher to synthetic data, not startup failure.
	aircraft := fetchers.NewAircraftClient(httpClient, cfg.AviationEdgeKey, log)
	flights := fetchers.NewFlightsClient(httpClient, cfg.AviationEdgeKey, log)
	weather := fetchers.NewWeatherClient(httpClient, cfg.AviationEdgeKey, cfg.GeocoderKey, log)
	news := fetchers.NewNewsClient(httpClient, cfg.NewsAPIKey, log)
	risk := fetchers.NewRiskClient(httpClient, cfg.RiskAPIKey, log)
	emissions := fetchers.NewEmissionsClient(httpClient, cfg.CarbonAPIKey, log)

	mock := flightenv.NewSyntheticProvider(log)
	live := flightenv.NewLiveProvider(aircraft, flights, weather, news, risk, emissions, log)

	// Airspace watch sweeps the configured routes in the background.
	history := watch.NewHistory(cfg.WatchMaxAlerts, cfg.WatchMaxAge)
	watcher := watch.New(live, cfg.WatchRoutes, cfg.WatchInterval, history, log)
	if err := watcher.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start airspace watch")
	}
	defer watcher.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "envbridge",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.RequestTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Mock:    mock,
		Live:    live,
		Watcher: watcher,
		Timeout: cfg.RequestTimeout,
		Log:     log,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("envbridge listening")

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
