package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v3"

	"floorplan/internal/converter/mapper"
	"floorplan/internal/converter/models"
)

// ============================================================
// Render Handler
// ============================================================

// Render converts a capture record straight to SVG.
func (h *Handler) Render(c fiber.Ctx) error {
	conv, err := h.convertRequest(c)
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendSVG(c, &conv.result.Scene, conv.palette)
}

// RenderPNG converts a capture record straight to PNG.
func (h *Handler) RenderPNG(c fiber.Ctx) error {
	conv, err := h.convertRequest(c)
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendPNG(c, &conv.result.Scene, conv.palette)
}

func (h *Handler) sendSVG(c fiber.Ctx, scene *models.Scene, palette mapper.Palette) error {
	svg, err := mapper.NewRenderer(palette).Render(scene)
	if err != nil {
		return h.fail(c, err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

func (h *Handler) sendPNG(c fiber.Ctx, scene *models.Scene, palette mapper.Palette) error {
	var buf bytes.Buffer
	if err := mapper.NewPNGRenderer(palette).Render(scene, &buf); err != nil {
		return h.fail(c, err)
	}

	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}
