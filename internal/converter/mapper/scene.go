package mapper

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"

	"floorplan/internal/converter/models"
)

// ============================================================
// Scene primitives
// ============================================================

const (
	dimensionOffset = 40.0
	arrowLength     = 8.0
	arrowHalfWidth  = 3.0

	doorIndicatorLength = 125.0
	labelOffsetY        = 25.0

	minDrawLength = 1e-6
)

// BuildScene emits the drawing primitives of a plan, back to front.
// Primitives with equal z keep their emission order.
func BuildScene(plan models.Plan) models.Scene {
	var prims []models.Primitive

	for _, w := range plan.Walls {
		prims = append(prims, dimensionPrimitives(w, plan.Scale)...)
	}
	for _, w := range plan.Walls {
		prims = append(prims, line(w.A, w.B, models.ColorWall, models.StrokeWall, models.CapProjecting, models.ZWall))
	}
	for _, o := range plan.Openings {
		prims = append(prims, erase(o))
	}
	for _, w := range plan.Windows {
		prims = append(prims,
			erase(w),
			line(w.A, w.B, models.ColorFixture, models.StrokeFixture, models.CapButt, models.ZFixture),
		)
	}
	for _, d := range plan.Doors {
		prims = append(prims, erase(d))
		if p, ok := doorIndicator(d); ok {
			prims = append(prims, p)
		}
	}
	for _, room := range plan.Rooms {
		if !room.Placed {
			continue
		}
		if m2, ok := room.Area.Value(); ok {
			prims = append(prims, text(room.Center, fmt.Sprintf("%.2f m²", m2), 0, models.ColorAreaText, models.StrokeAreaText))
		}
	}
	for _, room := range plan.Rooms {
		if !room.Placed {
			continue
		}
		anchor := room.Center.Add(r2.Point{X: 0, Y: labelOffsetY})
		prims = append(prims, text(anchor, strings.ToUpper(room.Label), 0, models.ColorLabelText, models.StrokeLabelText))
	}

	sort.SliceStable(prims, func(i, j int) bool {
		return prims[i].ZOrder < prims[j].ZOrder
	})

	return models.Scene{Primitives: prims, Bounds: plan.Bounds}
}

// dimensionPrimitives draws the measurement of a wall on its left side:
// the dimension line, two extension lines, two arrowheads and the length.
func dimensionPrimitives(w models.Segment, scale float64) []models.Primitive {
	dir := w.Direction()
	length := dir.Norm()
	if length < minDrawLength {
		return nil
	}

	u := dir.Mul(1 / length)
	n := u.Ortho()

	start := w.A.Add(n.Mul(dimensionOffset))
	end := w.B.Add(n.Mul(dimensionOffset))

	dim := func(a, b r2.Point) models.Primitive {
		return line(a, b, models.ColorDimension, models.StrokeDimension, "", models.ZDimension)
	}

	prims := []models.Primitive{
		dim(start, end),
		dim(w.A, start),
		dim(w.B, end),
	}

	// Arrowheads point outward from each end of the dimension line.
	for _, arrow := range []struct {
		tip r2.Point
		dir r2.Point
	}{{start, u}, {end, u.Mul(-1)}} {
		base := arrow.tip.Add(arrow.dir.Mul(arrowLength))
		prims = append(prims,
			dim(arrow.tip, base.Add(n.Mul(arrowHalfWidth))),
			dim(arrow.tip, base.Sub(n.Mul(arrowHalfWidth))),
		)
	}

	meters := w.Length
	if meters <= 0 {
		meters = length / scale
	}
	angle := math.Atan2(dir.Y, dir.X) * 180 / math.Pi
	label := text(start.Add(end).Mul(0.5), FormatLength(meters), angle, models.ColorLabelText, models.StrokeDimText)
	label.ZOrder = models.ZDimension

	return append(prims, label)
}

// doorIndicator is a fixed-length stroke through the door center,
// perpendicular to the door.
func doorIndicator(d models.Segment) (models.Primitive, bool) {
	dir := d.Direction()
	length := dir.Norm()
	if length < minDrawLength {
		return models.Primitive{}, false
	}

	perp := dir.Mul(1 / length).Ortho()
	half := perp.Mul(doorIndicatorLength / 2)
	mid := d.Midpoint()

	return line(mid.Sub(half), mid.Add(half), models.ColorFixture, models.StrokeFixture, models.CapButt, models.ZFixture), true
}

func erase(s models.Segment) models.Primitive {
	return line(s.A, s.B, models.ColorBackground, models.StrokeWall, models.CapButt, models.ZErase)
}

func line(a, b r2.Point, color models.ColorRole, stroke models.StrokeRole, capStyle models.CapStyle, z int) models.Primitive {
	return models.Primitive{
		Kind:   models.KindLine,
		Points: []r2.Point{a, b},
		Color:  color,
		Stroke: stroke,
		Cap:    capStyle,
		ZOrder: z,
	}
}

func text(anchor r2.Point, s string, rotation float64, color models.ColorRole, stroke models.StrokeRole) models.Primitive {
	return models.Primitive{
		Kind:     models.KindText,
		Anchor:   anchor,
		Text:     s,
		Rotation: rotation,
		Color:    color,
		Stroke:   stroke,
		ZOrder:   models.ZLabel,
	}
}

// FormatLength prints meters with at most two decimals and no trailing
// zeros, followed by "m".
func FormatLength(meters float64) string {
	s := strconv.FormatFloat(meters, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + "m"
}
