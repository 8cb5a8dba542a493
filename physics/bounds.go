package physics

import (
	"github.com/lixenwraith/softbody/vmath"
	"gonum.org/v1/gonum/spatial/r2"
)

// Bounds keeps particles inside an axis-aligned world rectangle
type Bounds struct {
	Box r2.Box
	// Inset shrinks the box by the particle radius
	Inset float64
	// Restitution 0 zeroes the clamped axis velocity; above 0 reflects and scales it
	Restitution float64
}

// Clamp pulls a particle back inside and rewrites Previous on each clamped axis
// Returns true if any axis was clamped
func (b *Bounds) Clamp(p *Particle) bool {
	if p.InvMass == 0 {
		return false
	}
	box := vmath.BoxInset(b.Box, b.Inset)
	cx := clampAxis(&p.Position.X, &p.Previous.X, box.Min.X, box.Max.X, b.Restitution)
	cy := clampAxis(&p.Position.Y, &p.Previous.Y, box.Min.Y, box.Max.Y, b.Restitution)
	return cx || cy
}

// ClampAll clamps every particle of the loop, returns number clamped
func (b *Bounds) ClampAll(store *Store, loop []int) int {
	n := 0
	for _, idx := range loop {
		if b.Clamp(store.At(idx)) {
			n++
		}
	}
	return n
}

// Contains reports whether the point lies within the inset box
func (b *Bounds) Contains(p r2.Vec) bool {
	return vmath.BoxContains(vmath.BoxInset(b.Box, b.Inset), p)
}

func clampAxis(pos, prev *float64, lo, hi, restitution float64) bool {
	var edge float64
	switch {
	case *pos < lo:
		edge = lo
	case *pos > hi:
		edge = hi
	default:
		return false
	}
	v := *pos - *prev
	*pos = edge
	// Next integration sees velocity pos-prev = -v*restitution on this axis
	*prev = edge + v*restitution
	return true
}
