package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"floorplan/internal/converter/mapper"
	"floorplan/internal/converter/models"
	"floorplan/internal/converter/parser"
	"floorplan/internal/converter/storage"
)

// ============================================================
// Converter Handler
// ============================================================

// PlanStore persists conversion results.
type PlanStore interface {
	Save(ctx context.Context, result *models.Result) (string, error)
	GetByID(ctx context.Context, id string) (*models.Result, error)
	List(ctx context.Context, limit int) ([]models.PlanSummary, error)
}

type Handler struct {
	converter *mapper.Converter
	plans     PlanStore
	files     *storage.FileStorage
	palette   mapper.Palette
	log       zerolog.Logger
}

// NewHandler wires the pipeline to HTTP. plans and files may be nil, in
// which case storing and the /plans routes are unavailable.
func NewHandler(converter *mapper.Converter, plans PlanStore, files *storage.FileStorage, palette mapper.Palette, logger zerolog.Logger) *Handler {
	return &Handler{
		converter: converter,
		plans:     plans,
		files:     files,
		palette:   palette,
		log:       logger.With().Str("component", "converter").Logger(),
	}
}

// requestError is reported to the client as 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// conversion is the outcome of running the pipeline on a request body.
type conversion struct {
	raw     []byte
	result  *models.Result
	palette mapper.Palette
}

// convertRequest reads the capture from the request, applies the query
// options and runs the pipeline.
func (h *Handler) convertRequest(c fiber.Ctx) (*conversion, error) {
	opts := h.converter.Options()

	var err error
	if opts.Normalize, err = queryBool(c, "normalize", opts.Normalize); err != nil {
		return nil, err
	}
	if opts.Merge, err = queryBool(c, "merge", opts.Merge); err != nil {
		return nil, err
	}

	palette := h.palette
	if raw := c.Query("wall_width"); raw != "" {
		width, err := strconv.ParseFloat(raw, 64)
		if err != nil || width <= 0 {
			return nil, badRequest("wall_width must be a positive number")
		}
		palette = palette.WithWallWidth(width)
	}

	data, err := readCapture(c)
	if err != nil {
		return nil, err
	}

	capture, err := parser.ParseCapture(data)
	if err != nil {
		if errors.Is(err, parser.ErrInvalidCapture) {
			return nil, badRequest("%v", err)
		}
		return nil, err
	}
	if len(capture.Skipped) > 0 {
		h.log.Warn().Int("skipped", len(capture.Skipped)).Msg("dropped malformed elements")
	}

	result, err := mapper.New(opts).Convert(capture)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	h.log.Info().
		Int("walls", result.Statistics.Walls).
		Int("doors", result.Statistics.Doors).
		Int("windows", result.Statistics.Windows).
		Int("rooms", result.Statistics.Rooms).
		Msg("conversion successful")

	return &conversion{raw: data, result: result, palette: palette}, nil
}

// readCapture takes the capture from the multipart "file" field or, failing
// that, the raw body.
func readCapture(c fiber.Ctx) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}

	if len(c.Body()) == 0 {
		return nil, badRequest("capture required as body or multipart file")
	}
	return c.Body(), nil
}

func queryBool(c fiber.Ctx, key string, def bool) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badRequest("%s must be a boolean", key)
	}
	return v, nil
}

// fail maps an error to a JSON error response.
func (h *Handler) fail(c fiber.Ctx, err error) error {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": reqErr.Error()})
	case errors.Is(err, storage.ErrInvalidID):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid plan id"})
	default:
		h.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// Register mounts the converter routes.
func (h *Handler) Register(router fiber.Router) {
	router.Post("/convert", h.Convert)
	router.Post("/render", h.Render)
	router.Post("/render/png", h.RenderPNG)

	router.Get("/plans", h.ListPlans)
	router.Get("/plans/:id", h.GetPlan)
	router.Get("/plans/:id/svg", h.GetPlanSVG)
	router.Get("/plans/:id/png", h.GetPlanPNG)
}
