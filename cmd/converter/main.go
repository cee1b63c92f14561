package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"floorplan/internal/common/config"
	"floorplan/internal/common/health"
	"floorplan/internal/common/logging"
	"floorplan/internal/common/middleware"
	"floorplan/internal/converter/graph"
	"floorplan/internal/converter/handlers"
	"floorplan/internal/converter/mapper"
	"floorplan/internal/converter/repository"
	"floorplan/internal/converter/storage"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rs/zerolog"
)

// ============================================================
// Converter Service
// ============================================================

func main() {
	cfg, err := config.Load("3001")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.Environment)

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open db")
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("init db")
	}

	converter := mapper.New(pipelineOptions(cfg.Pipeline, log))
	palette := mapper.DefaultPalette().WithWallWidth(cfg.Pipeline.WallWidth)
	handler := handlers.NewHandler(converter, repo, storage.NewFileStorage(cfg.StorageDir), palette, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Converter Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	health.Register(app, map[string]health.Check{
		"db": repo.Ping,
	})

	// ============================================================
	// Converter Routes
	// ============================================================

	handler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().
		Str("addr", addr).
		Str("env", cfg.Environment).
		Str("db", cfg.DBPath).
		Str("storage", cfg.StorageDir).
		Msg("starting converter service")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func pipelineOptions(p config.Pipeline, log zerolog.Logger) mapper.Options {
	opts := mapper.DefaultOptions()
	opts.Scale = p.ScaleFactor
	opts.Normalize = p.NormalizeAngles
	opts.NormalizeOptions = graph.NormalizeOptions{ThresholdDegrees: p.AngleThresholdDeg}
	opts.Merge = p.MergeCollinear
	opts.MergeOptions = graph.MergeOptions{AngleDegrees: p.MergeAngleDeg, Distance: p.MergeDistance}
	opts.AreaDistance = p.AreaDistance
	opts.Padding = p.BoundsPadding
	opts.Logger = log.With().Str("component", "pipeline").Logger()
	return opts
}
