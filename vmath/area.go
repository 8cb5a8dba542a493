package vmath

import "gonum.org/v1/gonum/spatial/r2"

// SignedArea returns the shoelace area of a closed polygon, CCW positive
// Returns 0 for fewer than 3 vertices
func SignedArea(poly []r2.Vec) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}
	var sum float64
	prev := poly[n-1]
	for _, p := range poly {
		sum += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return sum * 0.5
}

// Centroid returns the arithmetic mean of the vertices
// Vertex mean, not the area centroid; cheaper and sufficient for uniform rings
func Centroid(poly []r2.Vec) r2.Vec {
	if len(poly) == 0 {
		return r2.Vec{}
	}
	var c r2.Vec
	for _, p := range poly {
		c.X += p.X
		c.Y += p.Y
	}
	inv := 1.0 / float64(len(poly))
	return r2.Vec{X: c.X * inv, Y: c.Y * inv}
}

// BoxContains checks if point is within the closed box
func BoxContains(b r2.Box, p r2.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// BoxInset shrinks the box by margin on every side, collapsing to the center if too small
func BoxInset(b r2.Box, margin float64) r2.Box {
	out := r2.Box{
		Min: r2.Vec{X: b.Min.X + margin, Y: b.Min.Y + margin},
		Max: r2.Vec{X: b.Max.X - margin, Y: b.Max.Y - margin},
	}
	if out.Min.X > out.Max.X {
		mid := (b.Min.X + b.Max.X) * 0.5
		out.Min.X, out.Max.X = mid, mid
	}
	if out.Min.Y > out.Max.Y {
		mid := (b.Min.Y + b.Max.Y) * 0.5
		out.Min.Y, out.Max.Y = mid, mid
	}
	return out
}

// CenteredBox returns a box of the given extents centered at the origin
func CenteredBox(width, height float64) r2.Box {
	hw, hh := width*0.5, height*0.5
	return r2.Box{Min: r2.Vec{X: -hw, Y: -hh}, Max: r2.Vec{X: hw, Y: hh}}
}
