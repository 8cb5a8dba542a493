package input

import (
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/parameter"
	"github.com/lixenwraith/softbody/physics"
	"github.com/lixenwraith/softbody/vmath"
	"gonum.org/v1/gonum/spatial/r2"
)

// Perlin generator shape
const (
	noiseAlpha   = 2
	noiseBeta    = 2
	noiseOctaves = 3
)

// Noise-space offsets separating the x, y and gate channels
const (
	channelY    = 101.3
	channelGate = 257.9
)

// Wander drives the effector along a Perlin path for runs without a user
// A third noise channel gates engagement so bodies get time to settle
// Implements engine.FrameSource
type Wander struct {
	noise  *perlin.Perlin
	center r2.Vec
	reach  r2.Vec
	speed  float64
	mode   physics.EffectorMode

	t float64 // noise-space time
}

// NewWander creates a path over world, deterministic for a given seed
func NewWander(world r2.Box, mode physics.EffectorMode, seed int64) *Wander {
	size := world.Size()
	return &Wander{
		noise:  perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		center: world.Center(),
		reach:  r2.Vec{X: size.X / 2 * parameter.WanderReach, Y: size.Y / 2 * parameter.WanderReach},
		speed:  parameter.WanderSpeed,
		mode:   mode,
	}
}

// At returns the path point and engagement at noise time t
func (w *Wander) At(t float64) (r2.Vec, bool) {
	nx := vmath.Clamp(w.noise.Noise1D(t), -1, 1)
	ny := vmath.Clamp(w.noise.Noise1D(t+channelY), -1, 1)
	gate := w.noise.Noise1D(t + channelGate)
	return r2.Vec{
		X: w.center.X + nx*w.reach.X,
		Y: w.center.Y + ny*w.reach.Y,
	}, gate > parameter.WanderEngageThreshold
}

// PrepareFrame advances the path by elapsed and writes the effector
func (w *Wander) PrepareFrame(sim *engine.Simulation, elapsed time.Duration) {
	w.t += elapsed.Seconds() * w.speed
	pos, engaged := w.At(w.t)

	eff := sim.Effector()
	eff.Position = pos
	eff.Mode = w.mode
	eff.Active = engaged
}
