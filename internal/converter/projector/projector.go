// Package projector turns posed capture elements into 2D plan segments.
package projector

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"floorplan/internal/converter/models"
	"floorplan/internal/converter/pose"
)

// DefaultScale converts meters to plan units.
const DefaultScale = 200.0

// doorSwingAngle is the opening angle used for the informational door swing point.
const doorSwingAngle = 0.25 * math.Pi

// Center maps a 3D capture position onto the plan: X is negated and Z
// becomes the plan's Y axis.
func Center(x, z, scale float64) r2.Point {
	return r2.Point{X: -x * scale, Y: z * scale}
}

// Rotate rotates p about the origin by angle radians.
func Rotate(p r2.Point, angle float64) r2.Point {
	c, s := math.Cos(angle), math.Sin(angle)
	return r2.Point{X: c*p.X - s*p.Y, Y: s*p.X + c*p.Y}
}

// RotateAbout rotates p about pivot by angle radians.
func RotateAbout(p, pivot r2.Point, angle float64) r2.Point {
	return Rotate(p.Sub(pivot), angle).Add(pivot)
}

// Endpoints returns the two ends of a segment of halfLength centered on
// center and rotated by rotation.
func Endpoints(center r2.Point, halfLength, rotation float64) (r2.Point, r2.Point) {
	a := Rotate(r2.Point{X: -halfLength, Y: 0}, rotation).Add(center)
	b := Rotate(r2.Point{X: halfLength, Y: 0}, rotation).Add(center)
	return a, b
}

// Project converts one element into a segment. It reports false when the
// element's transform is incomplete.
func Project(e models.Element, scale float64) (models.Segment, bool) {
	if !pose.Valid(e.Transform) {
		return models.Segment{}, false
	}

	width := e.Width()
	position := pose.Position(e.Transform)
	euler := pose.EulerAngles(e.Transform)

	center := Center(position.X, position.Z, scale)
	rotation := -(euler.Z - euler.Y)
	half := width * scale / 2
	a, b := Endpoints(center, half, rotation)

	seg := models.Segment{
		Category: e.Category,
		ID:       e.ID,
		ParentID: e.ParentID,
		A:        a,
		B:        b,
		Center:   center,
		Rotation: rotation,
		Length:   width,
	}

	if e.Category == models.CategoryDoor {
		// Swing B about A in local space, then pose it like the endpoints.
		localA := r2.Point{X: -half, Y: 0}
		localB := r2.Point{X: half, Y: 0}
		open := RotateAbout(localB, localA, doorSwingAngle)
		swing := Rotate(open, rotation).Add(center)
		seg.Swing = &swing
	}

	return seg, true
}

// ProjectAll projects elements in order, skipping incomplete ones. Index
// counts emitted segments; elements without an identifier are named after
// their category and index.
func ProjectAll(elements []models.Element, scale float64) []models.Segment {
	segments := make([]models.Segment, 0, len(elements))
	for _, e := range elements {
		seg, ok := Project(e, scale)
		if !ok {
			continue
		}
		seg.Index = len(segments)
		if seg.ID == "" {
			seg.ID = fmt.Sprintf("%s_%d", e.Category, seg.Index)
		}
		segments = append(segments, seg)
	}
	return segments
}
