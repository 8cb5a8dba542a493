package physics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a Verlet point mass; velocity is implicit in Position - Previous
type Particle struct {
	Position r2.Vec
	Previous r2.Vec
	// Acceleration accumulates per-substep external input, cleared by Integrate
	Acceleration r2.Vec
	// InvMass is 1/mass, 0 pins the particle
	InvMass float64
}

// Pinned reports whether the particle is immovable
func (p *Particle) Pinned() bool {
	return p.InvMass == 0
}

// Velocity returns the displacement over the last substep
func (p *Particle) Velocity() r2.Vec {
	return r2.Sub(p.Position, p.Previous)
}

// Teleport moves the particle and keeps Verlet state consistent (zero velocity)
func (p *Particle) Teleport(pos r2.Vec) {
	p.Position = pos
	p.Previous = pos
}

// Translate moves both current and previous positions, preserving velocity
func (p *Particle) Translate(delta r2.Vec) {
	p.Position = r2.Add(p.Position, delta)
	p.Previous = r2.Add(p.Previous, delta)
}

// Store holds particles for all soft bodies with stable addresses
// Capacity is fixed at construction so pointers from At stay valid
// Each particle belongs to at most one body
type Store struct {
	particles []Particle
	owned     []bool
}

// NewStore creates a store for up to capacity particles
func NewStore(capacity int) *Store {
	return &Store{
		particles: make([]Particle, 0, capacity),
		owned:     make([]bool, 0, capacity),
	}
}

// Add appends a particle at rest and returns its index
func (s *Store) Add(pos r2.Vec, invMass float64) (int, error) {
	if invMass < 0 {
		return 0, fmt.Errorf("add particle at %v: %w", pos, ErrNegativeInvMass)
	}
	if len(s.particles) == cap(s.particles) {
		return 0, fmt.Errorf("add particle (capacity %d): %w", cap(s.particles), ErrStoreFull)
	}
	s.particles = append(s.particles, Particle{Position: pos, Previous: pos, InvMass: invMass})
	s.owned = append(s.owned, false)
	return len(s.particles) - 1, nil
}

// claim marks loop particles as owned by one body
// Fails without side effects when an index repeats or already belongs to a body
func (s *Store) claim(loop []int) error {
	for i, idx := range loop {
		if s.owned[idx] {
			for _, prev := range loop[:i] {
				s.owned[prev] = false
			}
			return fmt.Errorf("particle %d at loop position %d: %w", idx, i, ErrSharedParticle)
		}
		s.owned[idx] = true
	}
	return nil
}

// Owned reports whether particle i belongs to a soft body
func (s *Store) Owned(i int) bool {
	return s.owned[i]
}

// At returns the particle at index i, panics when out of range
func (s *Store) At(i int) *Particle {
	return &s.particles[i]
}

// Len returns the number of stored particles
func (s *Store) Len() int {
	return len(s.particles)
}

// Cap returns the fixed capacity
func (s *Store) Cap() int {
	return cap(s.particles)
}

// Valid reports whether i addresses a stored particle
func (s *Store) Valid(i int) bool {
	return i >= 0 && i < len(s.particles)
}
