package main

import (
	"fmt"
	"os"
	"time"

	"floorplan/internal/common/config"
	"floorplan/internal/common/health"
	"floorplan/internal/common/logging"
	"floorplan/internal/common/middleware"
	"floorplan/internal/gateway/handlers"
	"floorplan/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg, err := config.Load("3000")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.Environment)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Converter Service
	converter := proxy.New(cfg.ConverterURL, time.Duration(cfg.WriteTimeout)*time.Second, log)

	// ============================================================
	// Health Check Routes
	// ============================================================

	health.Register(app, map[string]health.Check{
		"converter": converter.Ping,
	})

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Floor Plan API v1",
			"status":  "ok",
		})
	})

	api.Post("/convert", converter.To("/convert"))
	api.Post("/render", converter.To("/render"))
	api.Post("/render/png", converter.To("/render/png"))

	api.Get("/plans", converter.To("/plans"))
	api.Get("/plans/:id", converter.To("/plans/:id"))
	api.Get("/plans/:id/svg", converter.To("/plans/:id/svg"))
	api.Get("/plans/:id/png", converter.To("/plans/:id/png"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().
		Str("addr", addr).
		Str("env", cfg.Environment).
		Str("converter", cfg.ConverterURL).
		Msg("starting API gateway")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
