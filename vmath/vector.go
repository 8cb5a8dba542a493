package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Lerp returns a + (b-a)*t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// DistanceSq returns squared distance between two points without sqrt
func DistanceSq(a, b r2.Vec) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dx*dx + dy*dy
}

// Distance returns Euclidean distance between two points
func Distance(a, b r2.Vec) float64 {
	return math.Sqrt(DistanceSq(a, b))
}

// Normalize returns unit vector and original length, zero-safe
func Normalize(v r2.Vec) (r2.Vec, float64) {
	mag := math.Hypot(v.X, v.Y)
	if mag == 0 {
		return r2.Vec{}, 0
	}
	inv := 1.0 / mag
	return r2.Vec{X: v.X * inv, Y: v.Y * inv}, mag
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether both components are neither NaN nor Inf
func IsFinite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
