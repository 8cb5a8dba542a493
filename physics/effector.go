package physics

import (
	"github.com/lixenwraith/softbody/vmath"
	"gonum.org/v1/gonum/spatial/r2"
)

// EffectorMode selects how the effector disturbs particles in range
type EffectorMode uint8

const (
	// ModePull accelerates particles toward the effector center
	ModePull EffectorMode = iota
	// ModePush accelerates particles away from the effector center
	ModePush
	// ModeDisplace moves particles onto the effector rim without adding velocity
	ModeDisplace
)

// String returns the mode name for status display
func (m EffectorMode) String() string {
	switch m {
	case ModePull:
		return "pull"
	case ModePush:
		return "push"
	case ModeDisplace:
		return "displace"
	default:
		return "unknown"
	}
}

// ParseEffectorMode maps a mode name to its value
func ParseEffectorMode(name string) (EffectorMode, bool) {
	switch name {
	case "pull":
		return ModePull, true
	case "push":
		return ModePush, true
	case "displace":
		return ModeDisplace, true
	}
	return ModePull, false
}

// Effector is an externally driven circular influence (cursor)
// Written by the input collaborator between scheduling calls, read-only to the solver
type Effector struct {
	Position r2.Vec
	Radius   float64
	// Strength scales pull/push acceleration per unit of penetration depth
	Strength float64
	Mode     EffectorMode
	Active   bool
}

// Apply disturbs every movable particle of the loop that lies within Radius
// Must run before integration so damping and constraints see the disturbance
func (e *Effector) Apply(store *Store, loop []int) {
	if !e.Active || e.Radius <= 0 {
		return
	}
	radiusSq := e.Radius * e.Radius

	for _, idx := range loop {
		p := store.At(idx)
		if p.InvMass == 0 {
			continue
		}
		if vmath.DistanceSq(e.Position, p.Position) >= radiusSq {
			continue
		}

		dir, dist := vmath.Normalize(r2.Sub(p.Position, e.Position))
		if dist == 0 {
			// Dead center has no defined direction
			continue
		}

		switch e.Mode {
		case ModePull:
			p.Acceleration = r2.Add(p.Acceleration, r2.Scale(-e.Strength*(e.Radius-dist), dir))
		case ModePush:
			p.Acceleration = r2.Add(p.Acceleration, r2.Scale(e.Strength*(e.Radius-dist), dir))
		case ModeDisplace:
			p.Translate(r2.Scale(e.Radius-dist, dir))
		}
	}
}
