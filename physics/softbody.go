package physics

import (
	"fmt"
	"math"

	"github.com/lixenwraith/softbody/vmath"
	"gonum.org/v1/gonum/spatial/r2"
)

// BodySpec describes a ring-shaped soft body to construct
type BodySpec struct {
	Center            r2.Vec
	Points            int
	Radius            float64
	Mass              float64
	Stiffness         float64
	DilationStiffness float64
	Puffiness         float64
	// Pinned lists loop positions (0..Points-1) created immovable
	Pinned []int
}

// Validate checks the spec without touching any store
func (s BodySpec) Validate() error {
	switch {
	case s.Points < 3:
		return fmt.Errorf("body with %d points: %w", s.Points, ErrTooFewParticles)
	case !(s.Radius > 0):
		return fmt.Errorf("body radius %v: %w", s.Radius, ErrInvalidRadius)
	case !(s.Mass > 0):
		return fmt.Errorf("body mass %v: %w", s.Mass, ErrInvalidMass)
	case !(s.Stiffness > 0 && s.Stiffness <= 1):
		return fmt.Errorf("body stiffness %v: %w", s.Stiffness, ErrInvalidStiffness)
	case !(s.DilationStiffness >= 0 && s.DilationStiffness <= 1):
		return fmt.Errorf("body dilation stiffness %v: %w", s.DilationStiffness, ErrInvalidDilation)
	case !(s.Puffiness > 0):
		return fmt.Errorf("body puffiness %v: %w", s.Puffiness, ErrInvalidPuffiness)
	}
	for _, i := range s.Pinned {
		if i < 0 || i >= s.Points {
			return fmt.Errorf("pinned loop position %d of %d: %w", i, s.Points, ErrParticleIndex)
		}
	}
	return nil
}

// Ring returns n points on a circle, counter-clockwise starting at angle 0
func Ring(center r2.Vec, n int, radius float64) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range pts {
		theta := float64(i) * 2 * math.Pi / float64(n)
		pts[i] = r2.Vec{
			X: center.X + radius*math.Cos(theta),
			Y: center.Y + radius*math.Sin(theta),
		}
	}
	return pts
}

// SoftBody is a closed loop of particles with distance and area constraints
// Particle count and loop order are fixed after construction
type SoftBody struct {
	store       *Store
	loop        []int
	constraints []DistanceConstraint

	targetArea        float64
	winding           float64 // +1 CCW, -1 CW; makes current area positive when not inverted
	dilationStiffness float64
	maxInvMass        float64

	rest    []r2.Vec // construction positions for Reset
	scratch []r2.Vec // per-substep gather buffer, reused
}

// NewSoftBody adds a ring of particles to the store and links them
func NewSoftBody(store *Store, spec BodySpec) (*SoftBody, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if free := store.Cap() - store.Len(); free < spec.Points {
		return nil, fmt.Errorf("body with %d points, %d free slots: %w", spec.Points, free, ErrStoreFull)
	}

	pinned := make(map[int]bool, len(spec.Pinned))
	for _, i := range spec.Pinned {
		pinned[i] = true
	}

	invMass := 1.0 / spec.Mass
	loop := make([]int, spec.Points)
	for i, pos := range Ring(spec.Center, spec.Points, spec.Radius) {
		im := invMass
		if pinned[i] {
			im = 0
		}
		idx, err := store.Add(pos, im)
		if err != nil {
			return nil, err
		}
		loop[i] = idx
	}

	return NewLoopBody(store, loop, spec.Stiffness, spec.DilationStiffness, spec.Puffiness)
}

// NewLoopBody links existing particles, in loop order, into a soft body
// Rest lengths and target area are measured from current positions
// Particles must be distinct and not already part of another body
func NewLoopBody(store *Store, loop []int, stiffness, dilationStiffness, puffiness float64) (*SoftBody, error) {
	n := len(loop)
	if n < 3 {
		return nil, fmt.Errorf("loop of %d particles: %w", n, ErrTooFewParticles)
	}
	if !(dilationStiffness >= 0 && dilationStiffness <= 1) {
		return nil, fmt.Errorf("dilation stiffness %v: %w", dilationStiffness, ErrInvalidDilation)
	}
	if !(puffiness > 0) {
		return nil, fmt.Errorf("puffiness %v: %w", puffiness, ErrInvalidPuffiness)
	}

	b := &SoftBody{
		store:             store,
		loop:              append([]int(nil), loop...),
		constraints:       make([]DistanceConstraint, 0, n),
		dilationStiffness: dilationStiffness,
		rest:              make([]r2.Vec, n),
		scratch:           make([]r2.Vec, n),
	}

	for i := 0; i < n; i++ {
		c, err := NewDistanceConstraint(store, loop[i], loop[(i+1)%n], stiffness)
		if err != nil {
			return nil, fmt.Errorf("loop edge %d: %w", i, err)
		}
		b.constraints = append(b.constraints, c)
	}

	for i, idx := range b.loop {
		p := store.At(idx)
		b.rest[i] = p.Position
		if p.InvMass > b.maxInvMass {
			b.maxInvMass = p.InvMass
		}
	}

	area := vmath.SignedArea(b.rest)
	if area == 0 {
		return nil, ErrDegenerateArea
	}
	b.winding = 1
	if area < 0 {
		b.winding = -1
	}
	b.targetArea = math.Abs(area) * puffiness

	if err := store.claim(b.loop); err != nil {
		return nil, err
	}
	return b, nil
}

// Len returns the number of particles in the loop
func (b *SoftBody) Len() int {
	return len(b.loop)
}

// Loop returns particle indices in loop order; callers must not modify it
func (b *SoftBody) Loop() []int {
	return b.loop
}

// Constraints returns the loop distance constraints; callers must not modify it
func (b *SoftBody) Constraints() []DistanceConstraint {
	return b.constraints
}

// TargetArea returns the rest area scaled by puffiness
func (b *SoftBody) TargetArea() float64 {
	return b.targetArea
}

// DilationStiffness returns the area correction strength
func (b *SoftBody) DilationStiffness() float64 {
	return b.dilationStiffness
}

// Area returns the current winding-corrected area, negative when inverted
func (b *SoftBody) Area() float64 {
	return vmath.SignedArea(b.gather()) * b.winding
}

// AreaRatio returns current area over target area
func (b *SoftBody) AreaRatio() float64 {
	return b.Area() / b.targetArea
}

// Centroid returns the vertex mean of the current loop
func (b *SoftBody) Centroid() r2.Vec {
	return vmath.Centroid(b.gather())
}

// Positions appends current loop positions to dst and returns it
// Reuse dst across frames to avoid allocation
func (b *SoftBody) Positions(dst []r2.Vec) []r2.Vec {
	for _, idx := range b.loop {
		dst = append(dst, b.store.At(idx).Position)
	}
	return dst
}

// MaxConstraintError returns the largest |length - rest| across the loop
func (b *SoftBody) MaxConstraintError() float64 {
	var worst float64
	for i := range b.constraints {
		if e := b.constraints[i].Error(b.store); e > worst {
			worst = e
		}
	}
	return worst
}

// Launch sets every movable particle's velocity to v (world units per second)
func (b *SoftBody) Launch(v r2.Vec, dt float64) {
	step := r2.Scale(dt, v)
	for _, idx := range b.loop {
		p := b.store.At(idx)
		if p.Pinned() {
			continue
		}
		p.Previous = r2.Sub(p.Position, step)
	}
}

// Reset restores the construction positions with zero velocity
func (b *SoftBody) Reset() {
	for i, idx := range b.loop {
		p := b.store.At(idx)
		p.Teleport(b.rest[i])
		p.Acceleration = r2.Vec{}
	}
}

// gather copies current loop positions into the scratch buffer
func (b *SoftBody) gather() []r2.Vec {
	for i, idx := range b.loop {
		b.scratch[i] = b.store.At(idx).Position
	}
	return b.scratch
}
