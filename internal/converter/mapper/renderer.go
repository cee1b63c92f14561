package mapper

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"floorplan/internal/converter/models"
)

// ============================================================
// Renderer
// ============================================================

// Palette sizes are points on a 16x14 inch figure. A plan is fitted into
// that figure, so the number of plan units per point depends on the bounds.
const (
	figureWidthPt  = 16 * 72.0
	figureHeightPt = 14 * 72.0
)

type Renderer struct {
	palette Palette
}

func NewRenderer(palette Palette) *Renderer {
	return &Renderer{palette: palette}
}

// Render builds an SVG document from scene primitives. The viewBox is the
// scene bounds and y grows downward.
func (r *Renderer) Render(scene *models.Scene) (string, error) {
	if scene == nil {
		return "", fmt.Errorf("scene is nil")
	}

	b := scene.Bounds
	if b.Width() <= 0 || b.Height() <= 0 {
		return "", fmt.Errorf("scene has empty bounds")
	}
	unit := unitsPerPoint(b)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(b.Width()), formatFloat(b.Height()),
		formatFloat(b.MinX), formatFloat(b.MinY), formatFloat(b.Width()), formatFloat(b.Height())))
	builder.WriteString("\n")

	builder.WriteString(fmt.Sprintf(`  <rect x="%s" y="%s" width="%s" height="%s" fill="%s" />`,
		formatFloat(b.MinX), formatFloat(b.MinY), formatFloat(b.Width()), formatFloat(b.Height()),
		r.palette.Hex(models.ColorBackground)))
	builder.WriteString("\n")

	for _, p := range scene.Primitives {
		var elem string
		switch p.Kind {
		case models.KindLine:
			elem = r.renderLine(p, unit)
		case models.KindText:
			elem = r.renderText(p, unit)
		}
		if elem == "" {
			continue
		}
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderLine(p models.Primitive, unit float64) string {
	if len(p.Points) < 2 {
		return ""
	}
	a, b := p.Points[0], p.Points[1]

	return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="%s" />`,
		formatFloat(a.X), formatFloat(a.Y), formatFloat(b.X), formatFloat(b.Y),
		r.palette.Hex(p.Color), formatFloat(r.palette.Width(p.Stroke)*unit), svgLineCap(p.Cap))
}

func (r *Renderer) renderText(p models.Primitive, unit float64) string {
	x, y := formatFloat(p.Anchor.X), formatFloat(p.Anchor.Y)

	var attrs strings.Builder
	switch p.Stroke {
	case models.StrokeLabelText, models.StrokeDimText:
		attrs.WriteString(` font-weight="bold"`)
	case models.StrokeAreaText:
		attrs.WriteString(` font-style="italic"`)
	}
	if angle := uprightAngle(p.Rotation); angle != 0 {
		attrs.WriteString(fmt.Sprintf(` transform="rotate(%s %s %s)"`, formatFloat(angle), x, y))
	}

	return fmt.Sprintf(`<text x="%s" y="%s" font-family="sans-serif" font-size="%s" fill="%s" text-anchor="middle" dominant-baseline="middle"%s>%s</text>`,
		x, y, formatFloat(r.palette.Width(p.Stroke)*unit), r.palette.Hex(p.Color), attrs.String(), html.EscapeString(p.Text))
}

// ============================================================
// Helpers
// ============================================================

func unitsPerPoint(b models.Bounds) float64 {
	return math.Max(b.Width()/figureWidthPt, b.Height()/figureHeightPt)
}

// uprightAngle folds a text rotation into (-90, 90] degrees so labels never
// read upside down.
func uprightAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	switch {
	case deg > 180:
		deg -= 360
	case deg <= -180:
		deg += 360
	}
	switch {
	case deg > 90:
		deg -= 180
	case deg <= -90:
		deg += 180
	}
	return deg
}

func svgLineCap(c models.CapStyle) string {
	if c == models.CapProjecting {
		return "square"
	}
	return "butt"
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
