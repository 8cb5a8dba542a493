package physics

import (
	"fmt"
	"math"
)

// DistanceConstraint pulls two particles toward their rest separation
type DistanceConstraint struct {
	A, B       int
	RestLength float64
	// Stiffness is the fraction of correction applied per relaxation pass, (0, 1]
	Stiffness float64
}

// NewDistanceConstraint measures the rest length from the current positions
func NewDistanceConstraint(store *Store, a, b int, stiffness float64) (DistanceConstraint, error) {
	if !store.Valid(a) || !store.Valid(b) {
		return DistanceConstraint{}, fmt.Errorf("constraint (%d,%d) with %d particles: %w", a, b, store.Len(), ErrParticleIndex)
	}
	if a == b {
		return DistanceConstraint{}, fmt.Errorf("constraint (%d,%d): %w", a, b, ErrDegenerateEdge)
	}
	if !(stiffness > 0 && stiffness <= 1) {
		return DistanceConstraint{}, fmt.Errorf("constraint (%d,%d) stiffness %v: %w", a, b, stiffness, ErrInvalidStiffness)
	}

	pa, pb := store.At(a).Position, store.At(b).Position
	rest := math.Hypot(pb.X-pa.X, pb.Y-pa.Y)
	if rest <= 0 {
		return DistanceConstraint{}, fmt.Errorf("constraint (%d,%d) rest length 0: %w", a, b, ErrDegenerateEdge)
	}

	return DistanceConstraint{A: a, B: b, RestLength: rest, Stiffness: stiffness}, nil
}

// Relax applies one Gauss-Seidel correction in place
// Skips coincident endpoints (no direction) and fully pinned pairs (no split)
func (c *DistanceConstraint) Relax(store *Store, lengthEpsilon float64) {
	pa := store.At(c.A)
	pb := store.At(c.B)

	w := pa.InvMass + pb.InvMass
	if w == 0 {
		return
	}

	dx := pb.Position.X - pa.Position.X
	dy := pb.Position.Y - pa.Position.Y
	length := math.Hypot(dx, dy)
	if length < lengthEpsilon {
		return
	}

	// (len - rest)/len * delta, pre-scaled by stiffness and inverse mass sum
	k := (length - c.RestLength) / length * c.Stiffness / w
	cx, cy := dx*k, dy*k

	pa.Position.X += cx * pa.InvMass
	pa.Position.Y += cy * pa.InvMass
	pb.Position.X -= cx * pb.InvMass
	pb.Position.Y -= cy * pb.InvMass
}

// Error returns |current length - rest length|
func (c *DistanceConstraint) Error(store *Store) float64 {
	pa, pb := store.At(c.A).Position, store.At(c.B).Position
	return math.Abs(math.Hypot(pb.X-pa.X, pb.Y-pa.Y) - c.RestLength)
}
