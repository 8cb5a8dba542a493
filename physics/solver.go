package physics

import (
	"fmt"
	"math"

	"github.com/lixenwraith/softbody/parameter"
	"github.com/lixenwraith/softbody/vmath"
)

// Solver runs distance relaxation then area correction on a soft body
// Holds no per-body state; scratch lives on each SoftBody
type Solver struct {
	iterations    int
	lengthEpsilon float64
	areaEpsilon   float64
	maxFactor     float64
}

// NewSolver creates a solver running iterations relaxation passes per substep
func NewSolver(iterations int) (*Solver, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("solver with %d iterations: %w", iterations, ErrInvalidIterations)
	}
	return &Solver{
		iterations:    iterations,
		lengthEpsilon: parameter.LengthEpsilon,
		areaEpsilon:   parameter.AreaEpsilon,
		maxFactor:     parameter.MaxDilationFactor,
	}, nil
}

// Iterations returns relaxation passes per substep
func (s *Solver) Iterations() int {
	return s.iterations
}

// Solve performs the full per-substep constraint pass
func (s *Solver) Solve(b *SoftBody) {
	for range s.iterations {
		s.Relax(b)
	}
	s.Dilate(b)
}

// Relax runs one Gauss-Seidel pass over the distance constraints in loop order
func (s *Solver) Relax(b *SoftBody) {
	for i := range b.constraints {
		b.constraints[i].Relax(b.store, s.lengthEpsilon)
	}
}

// Dilate rescales the loop about its centroid toward the target area
// Growth per call is bounded by MaxDilationFactor
// Inverted or zero-area loops are left to relaxation
func (s *Solver) Dilate(b *SoftBody) {
	if b.dilationStiffness == 0 || b.maxInvMass == 0 {
		return
	}

	poly := b.gather()
	area := vmath.SignedArea(poly) * b.winding
	if area <= 0 {
		return
	}
	floor := math.Max(s.areaEpsilon, b.targetArea/(s.maxFactor*s.maxFactor))
	factor := math.Sqrt(b.targetArea / math.Max(area, floor))
	centroid := vmath.Centroid(poly)

	for i, idx := range b.loop {
		p := b.store.At(idx)
		if p.InvMass == 0 {
			continue
		}
		t := b.dilationStiffness * p.InvMass / b.maxInvMass
		scale := vmath.Lerp(1, factor, t)
		p.Position.X = centroid.X + (poly[i].X-centroid.X)*scale
		p.Position.Y = centroid.Y + (poly[i].Y-centroid.Y)*scale
	}
}
