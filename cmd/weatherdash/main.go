package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpapi "github.com/weatherdash/weatherdash/internal/api/http"
	"github.com/weatherdash/weatherdash/internal/config"
	"github.com/weatherdash/weatherdash/internal/dashboard"
	"github.com/weatherdash/weatherdash/internal/health"
	"github.com/weatherdash/weatherdash/internal/httpx"
	"github.com/weatherdash/weatherdash/internal/location"
	"github.com/weatherdash/weatherdash/internal/records"
	"github.com/weatherdash/weatherdash/internal/weather"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Shared HTTP client for all outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	clientCfg := httpx.Config{
		Client: httpClient,
		Retry: httpx.RetryConfig{
			Enabled:         cfg.RetryEnabled,
			MaxRetries:      cfg.RetryMaxAttempts,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
		},
	}

	locClient := location.NewClient(cfg.LocationServiceURL, clientCfg)
	wxClient := weather.NewClient(cfg.WeatherServiceURL, clientCfg)
	storeClient := records.NewClient(cfg.DataServiceURL, clientCfg)

	session := dashboard.NewSession(locClient, wxClient, storeClient, dashboard.Config{
		ForecastDays: cfg.ForecastDays,
		MaxRangeDays: cfg.MaxRangeDays,
		StatusTTL:    cfg.StatusTTL,
	})

	// Periodic liveness probe of the three upstream services.
	prober := health.NewProber([]health.Target{
		{Name: "location-service", URL: cfg.LocationHealthURL},
		{Name: "weather-service", URL: cfg.WeatherHealthURL},
		{Name: "data-service", URL: cfg.DataHealthURL},
	}, cfg.ProbeInterval, httpClient, cfg.ProbeMaxHistory)
	if err := prober.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start health prober")
	}
	defer prober.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weatherdash",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
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

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "weatherdash",
			"upstreams": prober.Statuses(),
		})
	})

	httpapi.RegisterRoutes(app, session)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
