package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lmittmann/tint"

	httpapi "github.com/adisdwi/cuaca-api/internal/api/http"
	"github.com/adisdwi/cuaca-api/internal/airquality"
	"github.com/adisdwi/cuaca-api/internal/config"
	"github.com/adisdwi/cuaca-api/internal/foreca"
	"github.com/adisdwi/cuaca-api/internal/geocode"
	"github.com/adisdwi/cuaca-api/internal/scheduler"
)

func main() {
	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})).With("app", "cuaca-api")
	slog.SetDefault(log)

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Weather provider session and clients.
	tokens := foreca.NewTokenSource(httpClient, cfg.ForecaBaseURL, cfg.ForecaUser, cfg.ForecaPassword)
	weather := foreca.NewClient(httpClient, tokens, cfg.ForecaBaseURL, cfg.LocationIDTTL, log)
	air := airquality.NewClient(httpClient, cfg.IQAirBaseURL, cfg.IQAirAPIKey, cfg.AirQualityTimeout, log)
	geo := geocode.NewClient(httpClient, cfg.NominatimBaseURL, cfg.GeocodeCountry, cfg.GeocodeTimeout, log)

	// Janitor sweeping expired provider-id cache entries.
	janitor := scheduler.New(weather, cfg.CacheSweepInterval, log)
	if err := janitor.Start(); err != nil {
		log.Error("failed to start cache janitor", "err", err)
		os.Exit(1)
	}
	defer janitor.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "cuaca-api",
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "cuaca-api",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Weather: weather,
		Air:     air,
		Geo:     geo,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "err", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "err", err)
	}
}
