package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DampingFactor converts per-second velocity retention into a per-substep factor
// dampingPerSecond^dt keeps decay per unit real time independent of the substep rate
func DampingFactor(dampingPerSecond, dt float64) float64 {
	return math.Pow(dampingPerSecond, dt)
}

// Integrate advances one particle by one substep: position-Verlet with damping
// on the implicit velocity and external acceleration (gravity + accumulator)
func Integrate(p *Particle, dt, dampingPerSecond float64, gravity r2.Vec) {
	IntegrateDamped(p, dt, DampingFactor(dampingPerSecond, dt), gravity)
}

// IntegrateDamped is Integrate with a precomputed per-substep damping factor
// Pinned particles keep their position; the accumulator is always cleared
func IntegrateDamped(p *Particle, dt, damping float64, gravity r2.Vec) {
	if p.InvMass == 0 {
		p.Previous = p.Position
		p.Acceleration = r2.Vec{}
		return
	}

	dt2 := dt * dt
	ax := gravity.X + p.Acceleration.X
	ay := gravity.Y + p.Acceleration.Y

	vx := (p.Position.X-p.Previous.X)*damping + ax*dt2
	vy := (p.Position.Y-p.Previous.Y)*damping + ay*dt2

	p.Previous = p.Position
	p.Position.X += vx
	p.Position.Y += vy
	p.Acceleration = r2.Vec{}
}

// IntegrateAll advances every particle in the loop by one substep
func IntegrateAll(store *Store, loop []int, dt, damping float64, gravity r2.Vec) {
	for _, idx := range loop {
		IntegrateDamped(store.At(idx), dt, damping, gravity)
	}
}
