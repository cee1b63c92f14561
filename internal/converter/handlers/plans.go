package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"floorplan/internal/converter/models"
	"floorplan/internal/converter/repository"
)

// ============================================================
// Stored Plans
// ============================================================

func (h *Handler) ListPlans(c fiber.Ctx) error {
	if h.plans == nil {
		return h.fail(c, badRequest("storage is not configured"))
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return h.fail(c, badRequest("limit must be a positive integer"))
		}
		limit = n
	}

	plans, err := h.plans.List(c.Context(), limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"plans": plans})
}

func (h *Handler) GetPlan(c fiber.Ctx) error {
	result, err := h.loadPlan(c)
	if err != nil {
		return h.failPlan(c, err)
	}
	return c.JSON(result)
}

// GetPlanSVG serves the SVG saved with the plan, rendering it again when
// the file is missing.
func (h *Handler) GetPlanSVG(c fiber.Ctx) error {
	id := c.Params("id")
	if h.files != nil {
		path, err := h.files.SVGPath(id)
		if err != nil {
			return h.fail(c, err)
		}
		if data, err := os.ReadFile(path); err == nil {
			c.Set("Content-Type", "image/svg+xml")
			return c.Send(data)
		}
	}

	result, err := h.loadPlan(c)
	if err != nil {
		return h.failPlan(c, err)
	}
	return h.sendSVG(c, &result.Scene, h.palette)
}

// GetPlanPNG rasterizes a stored plan and keeps the PNG next to it.
func (h *Handler) GetPlanPNG(c fiber.Ctx) error {
	id := c.Params("id")
	var path string
	if h.files != nil {
		var err error
		if path, err = h.files.PNGPath(id); err != nil {
			return h.fail(c, err)
		}
		if data, err := os.ReadFile(path); err == nil {
			c.Set("Content-Type", "image/png")
			return c.Send(data)
		}
	}

	result, err := h.loadPlan(c)
	if err != nil {
		return h.failPlan(c, err)
	}

	if err := h.sendPNG(c, &result.Scene, h.palette); err != nil {
		return err
	}
	if path != "" && c.Response().StatusCode() == http.StatusOK {
		if err := h.files.SaveFile(id, path, c.Response().Body()); err != nil {
			h.log.Warn().Err(err).Str("plan_id", id).Msg("failed to cache png")
		}
	}
	return nil
}

func (h *Handler) loadPlan(c fiber.Ctx) (*models.Result, error) {
	if h.plans == nil {
		return nil, badRequest("storage is not configured")
	}
	return h.plans.GetByID(c.Context(), c.Params("id"))
}

func (h *Handler) failPlan(c fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "plan not found"})
	}
	return h.fail(c, err)
}
