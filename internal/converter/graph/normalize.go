package graph

import (
	"math"

	"floorplan/internal/converter/models"
	"floorplan/internal/converter/projector"
)

// ============================================================
// Angle normalization
// ============================================================

// DefaultAxisSnapDegrees is how far a wall may deviate from an axis and
// still be snapped onto it.
const DefaultAxisSnapDegrees = 5.0

var axisAngles = [4]float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}

type NormalizeOptions struct {
	ThresholdDegrees float64
	Scale            float64
}

func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{ThresholdDegrees: DefaultAxisSnapDegrees, Scale: projector.DefaultScale}
}

// NormalizeAngles snaps walls that are within the threshold of 0, 90, 180
// or 270 degrees onto that axis, rebuilding their endpoints from center and
// length. Other walls are returned unchanged.
func NormalizeAngles(walls []models.Segment, opts NormalizeOptions) []models.Segment {
	threshold := opts.ThresholdDegrees * math.Pi / 180
	out := make([]models.Segment, len(walls))

	for i, seg := range walls {
		out[i] = seg

		axis, diff := nearestAxis(seg.Rotation)
		if diff >= threshold {
			continue
		}

		out[i].Rotation = axis
		out[i].A, out[i].B = projector.Endpoints(seg.Center, seg.Length*opts.Scale/2, axis)
	}

	return out
}

// nearestAxis returns the closest axis angle to rotation and the wrap-aware
// distance to it.
func nearestAxis(rotation float64) (float64, float64) {
	r := wrapAngle(rotation)

	best, bestDiff := r, math.Inf(1)
	for _, axis := range axisAngles {
		diff := math.Min(math.Abs(r-axis), math.Min(math.Abs(r-axis+2*math.Pi), math.Abs(r-axis-2*math.Pi)))
		if diff < bestDiff {
			best, bestDiff = axis, diff
		}
	}
	return best, bestDiff
}

// wrapAngle maps a into [0, 2pi).
func wrapAngle(a float64) float64 {
	r := math.Mod(a, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	if r >= 2*math.Pi {
		r = 0
	}
	return r
}
