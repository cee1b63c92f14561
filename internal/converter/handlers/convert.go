package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"floorplan/internal/converter/mapper"
)

// ============================================================
// Convert Handler
// ============================================================

// Convert turns a capture record into a plan, scene and statistics, or into
// a react-planner scene with format=planner. store=true persists the result.
func (h *Handler) Convert(c fiber.Ctx) error {
	format := c.Query("format", "scene")
	if format != "scene" && format != "planner" {
		return h.fail(c, badRequest("format must be scene or planner"))
	}

	store, err := queryBool(c, "store", false)
	if err != nil {
		return h.fail(c, err)
	}

	conv, err := h.convertRequest(c)
	if err != nil {
		return h.fail(c, err)
	}

	if store {
		if err := h.store(c, conv); err != nil {
			return h.fail(c, err)
		}
	}

	if format == "planner" {
		return c.JSON(mapper.ExportPlanner(conv.result.Plan))
	}
	return c.JSON(conv.result)
}

// store writes the capture and its SVG, then the database row, so a listed
// plan always has its files. Files of a row that failed to save are removed.
func (h *Handler) store(c fiber.Ctx, conv *conversion) error {
	if h.plans == nil || h.files == nil {
		return badRequest("storage is not configured")
	}

	svg, err := mapper.NewRenderer(conv.palette).Render(&conv.result.Scene)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	if err := h.files.SaveArtifacts(id, conv.raw, svg); err != nil {
		return err
	}

	conv.result.ID = id
	if _, err := h.plans.Save(c.Context(), conv.result); err != nil {
		conv.result.ID = ""
		if rmErr := h.files.RemovePlan(id); rmErr != nil {
			h.log.Warn().Err(rmErr).Str("plan_id", id).Msg("failed to remove artifacts")
		}
		return err
	}

	h.log.Info().Str("plan_id", id).Msg("plan stored")
	c.Set("Location", "/plans/"+id)
	c.Status(http.StatusCreated)
	return nil
}
