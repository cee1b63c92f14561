package graph

import (
	"math"

	"github.com/golang/geo/r2"

	"floorplan/internal/converter/models"
	"floorplan/internal/converter/projector"
)

// ============================================================
// Collinear merging
// ============================================================

const (
	// DefaultMergeAngleDegrees is the largest angle between two walls that
	// still counts as parallel.
	DefaultMergeAngleDegrees = 2.0
	// DefaultMergeDistance is the largest distance, in plan units, of a
	// wall's endpoints from another wall's line.
	DefaultMergeDistance = 50.0

	minSegmentLength = 1e-6
)

type MergeOptions struct {
	AngleDegrees float64
	Distance     float64
	Scale        float64
}

func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		AngleDegrees: DefaultMergeAngleDegrees,
		Distance:     DefaultMergeDistance,
		Scale:        projector.DefaultScale,
	}
}

// MergeCollinear joins walls lying on the same line into single runs.
//
// Each unused wall seeds a group and collects every later-unused wall that
// is collinear with the seed itself. Membership is not transitive: a wall
// collinear only with another member of the group starts or joins a
// different group.
func MergeCollinear(walls []models.Segment, opts MergeOptions) []models.Segment {
	if len(walls) == 0 {
		return walls
	}

	cosLimit := math.Cos(opts.AngleDegrees * math.Pi / 180)
	used := make([]bool, len(walls))
	merged := make([]models.Segment, 0, len(walls))

	for i, seed := range walls {
		if used[i] {
			continue
		}
		used[i] = true
		group := []models.Segment{seed}

		for j, other := range walls {
			if used[j] {
				continue
			}
			if collinear(seed, other, opts.Distance, cosLimit) {
				group = append(group, other)
				used[j] = true
			}
		}

		if len(group) == 1 {
			merged = append(merged, seed)
			continue
		}
		merged = append(merged, mergeGroup(group, opts.Scale))
	}

	return merged
}

func collinear(s1, s2 models.Segment, maxDist, cosLimit float64) bool {
	d1 := s1.Direction()
	d2 := s2.Direction()
	if d1.Norm() < minSegmentLength || d2.Norm() < minSegmentLength {
		return false
	}

	if math.Abs(d1.Normalize().Dot(d2.Normalize())) < cosLimit {
		return false
	}

	return pointLineDistance(s2.A, s1.A, s1.B) < maxDist &&
		pointLineDistance(s2.B, s1.A, s1.B) < maxDist
}

// mergeGroup spans the two most distant endpoints of the group. The seed's
// identity is kept.
func mergeGroup(group []models.Segment, scale float64) models.Segment {
	points := make([]r2.Point, 0, len(group)*2)
	for _, seg := range group {
		points = append(points, seg.A, seg.B)
	}

	var bestA, bestB r2.Point
	maxDist := 0.0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if d := points[i].Sub(points[j]).Norm(); d > maxDist {
				maxDist = d
				bestA, bestB = points[i], points[j]
			}
		}
	}

	dir := bestB.Sub(bestA)
	seed := group[0]
	return models.Segment{
		Category: models.CategoryWall,
		ID:       seed.ID,
		ParentID: seed.ParentID,
		Index:    seed.Index,
		A:        bestA,
		B:        bestB,
		Center:   bestA.Add(bestB).Mul(0.5),
		Rotation: math.Atan2(dir.Y, dir.X),
		Length:   dir.Norm() / scale,
	}
}
