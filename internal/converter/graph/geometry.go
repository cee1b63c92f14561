package graph

import (
	"math"

	"github.com/golang/geo/r2"
)

// ============================================================
// Helpers
// ============================================================

// pointLineDistance is the perpendicular distance from p to the infinite
// line through a and b. A degenerate line falls back to the distance to a.
func pointLineDistance(p, a, b r2.Point) float64 {
	line := b.Sub(a)
	length := line.Norm()
	if length < minSegmentLength {
		return p.Sub(a).Norm()
	}
	return math.Abs(line.Cross(p.Sub(a))) / length
}

// pointSegmentDistance returns the distance from p to the segment ab and the
// position of the closest point along it, 0 at a and 1 at b.
func pointSegmentDistance(p, a, b r2.Point) (float64, float64) {
	d := b.Sub(a)
	lengthSq := d.Dot(d)
	if lengthSq == 0 {
		return p.Sub(a).Norm(), 0
	}

	t := p.Sub(a).Dot(d) / lengthSq
	t = math.Max(0, math.Min(1, t))

	closest := a.Add(d.Mul(t))
	return p.Sub(closest).Norm(), t
}
