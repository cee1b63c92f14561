// Package area estimates room areas from the walls surrounding a room center.
package area

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/rclancey/earcut"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"floorplan/internal/converter/models"
	"floorplan/internal/converter/projector"
)

// DefaultDistance is how close, in plan units, a wall midpoint must be to
// the room center to count as one of the room's walls.
const DefaultDistance = 500.0

type Options struct {
	Distance float64
	Scale    float64
}

func DefaultOptions() Options {
	return Options{Distance: DefaultDistance, Scale: projector.DefaultScale}
}

// Estimate returns the area of the convex hull of the endpoints of every wall
// near center, in square meters. Center and walls must be in the same frame.
//
// The hull over-estimates non-convex rooms.
func Estimate(center r2.Point, walls []models.Segment, opts Options) models.AreaEstimate {
	nearby := lo.Filter(walls, func(w models.Segment, _ int) bool {
		return w.Midpoint().Sub(center).Norm() < opts.Distance
	})
	if len(nearby) < 3 {
		return models.UnknownArea(models.ReasonInsufficientWalls)
	}

	points := make([]r2.Point, 0, len(nearby)*2)
	for _, w := range nearby {
		points = append(points, w.A, w.B)
	}
	points = lo.Uniq(points)
	if len(points) < 3 {
		return models.UnknownArea(models.ReasonInsufficientPoints)
	}

	scaleSq := opts.Scale * opts.Scale

	if polygon, a, ok := convexHull(points); ok && a > 0 {
		return models.KnownArea(a/scaleSq, polygon)
	}

	// The hull is only non-polygonal for collinear points, whose angle-sorted
	// polygon has no area either, so this always ends in Degenerate.
	polygon := sortByAngle(points)
	a, err := triangulatedArea(polygon)
	if err != nil || a <= 0 {
		return models.UnknownArea(models.ReasonDegenerate)
	}
	return models.KnownArea(a/scaleSq, polygon)
}

// convexHull returns the hull ring without its closing point, and its area.
// It reports false when the hull is not a polygon, as for collinear input.
func convexHull(points []r2.Point) ([]r2.Point, float64, bool) {
	geomPoints := make([]geom.Point, len(points))
	for i, p := range points {
		pt, err := geom.NewPoint(geom.Coordinates{
			XY:   geom.XY{X: p.X, Y: p.Y},
			Type: geom.DimXY,
		})
		if err != nil {
			return nil, 0, false
		}
		geomPoints[i] = pt
	}

	hull := geom.NewMultiPoint(geomPoints).ConvexHull()
	if !hull.IsPolygon() {
		return nil, 0, false
	}

	seq := hull.DumpCoordinates()
	ring := make([]r2.Point, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		ring = append(ring, r2.Point{X: xy.X, Y: xy.Y})
	}
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	return ring, hull.Area(), len(ring) >= 3
}

// sortByAngle orders points by their angle around the centroid.
func sortByAngle(points []r2.Point) []r2.Point {
	xs := lo.Map(points, func(p r2.Point, _ int) float64 { return p.X })
	ys := lo.Map(points, func(p r2.Point, _ int) float64 { return p.Y })
	c := r2.Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}

	sorted := append([]r2.Point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].Sub(c), sorted[j].Sub(c)
		return math.Atan2(di.Y, di.X) < math.Atan2(dj.Y, dj.X)
	})
	return sorted
}

func triangulatedArea(polygon []r2.Point) (float64, error) {
	coords := make([]float64, 0, len(polygon)*2)
	for _, p := range polygon {
		coords = append(coords, p.X, p.Y)
	}

	indices, err := earcut.Earcut(coords, nil, 2)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := polygon[indices[t]], polygon[indices[t+1]], polygon[indices[t+2]]
		total += math.Abs(b.Sub(a).Cross(c.Sub(a))) / 2
	}
	return total, nil
}
