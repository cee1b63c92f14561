// Package pose decodes the 4x4 pose transforms of a capture record.
//
// Transforms are 16 floats in row-major order. The upper-left 3x3 block is
// the rotation, indices 12..14 hold the translation.
package pose

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// TransformSize is the number of values in a complete pose transform.
const TransformSize = 16

// Valid reports whether t holds a complete transform.
func Valid(t []float64) bool {
	return len(t) >= TransformSize
}

// Position returns the translation of t, or the zero vector if t is short.
func Position(t []float64) r3.Vector {
	if !Valid(t) {
		return r3.Vector{}
	}
	return r3.Vector{X: t[12], Y: t[13], Z: t[14]}
}

// Rotation returns the 3x3 rotation block of t, or identity if t is short.
func Rotation(t []float64) mat.Matrix {
	if !Valid(t) {
		return mat.NewDiagDense(3, []float64{1, 1, 1})
	}
	m := mat.NewDense(4, 4, t[:TransformSize])
	return m.Slice(0, 3, 0, 3)
}

// EulerAngles extracts (x, y, z) Euler angles in radians using the capture
// device convention:
//
//	x = asin(-R[2][1])
//	y = atan2(R[2][0], R[2][2])
//	z = atan2(R[0][1], R[1][1])
//
// The asin argument is clamped to [-1, 1] so nearly orthonormal input does
// not produce NaN. Short transforms yield the zero vector.
func EulerAngles(t []float64) r3.Vector {
	if !Valid(t) {
		return r3.Vector{}
	}
	r := Rotation(t)
	return r3.Vector{
		X: math.Asin(clamp(-r.At(2, 1), -1, 1)),
		Y: math.Atan2(r.At(2, 0), r.At(2, 2)),
		Z: math.Atan2(r.At(0, 1), r.At(1, 1)),
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
