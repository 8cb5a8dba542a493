package input

import (
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Pointer turns pressed/released cursor state into effector state
// The effector follows the cursor through a spring so terminal cell jumps
// become continuous motion
// Implements engine.FrameSource
type Pointer struct {
	spring harmonica.Spring

	target  r2.Vec
	pos     r2.Vec
	vel     r2.Vec
	mode    physics.EffectorMode
	active  bool
	engaged bool // spring state valid since the current press began
}

// NewPointer creates a pointer smoothed by a spring stepped once per frame interval
func NewPointer(frameInterval time.Duration, frequency, damping float64) *Pointer {
	return &Pointer{
		spring: harmonica.NewSpring(harmonica.FPS(fps(frameInterval)), frequency, damping),
	}
}

func fps(interval time.Duration) int {
	if interval <= 0 {
		return 60
	}
	return max(1, int(time.Second/interval))
}

// Press engages the effector in mode, aimed at world point p
func (ptr *Pointer) Press(mode physics.EffectorMode, p r2.Vec) {
	ptr.target = p
	ptr.mode = mode
	ptr.active = true
}

// Release disengages the effector
func (ptr *Pointer) Release() {
	ptr.active = false
	ptr.engaged = false
}

// Active reports whether a button is held
func (ptr *Pointer) Active() bool {
	return ptr.active
}

// Position returns the smoothed effector position
func (ptr *Pointer) Position() r2.Vec {
	return ptr.pos
}

// PrepareFrame steps the spring and writes the effector
// A paused frame (zero elapsed) leaves the spring where it is
func (ptr *Pointer) PrepareFrame(sim *engine.Simulation, elapsed time.Duration) {
	eff := sim.Effector()
	if !ptr.active {
		eff.Active = false
		return
	}

	if !ptr.engaged {
		// New press starts at the cursor, not where the last drag ended
		ptr.pos, ptr.vel = ptr.target, r2.Vec{}
		ptr.engaged = true
	} else if elapsed > 0 {
		ptr.pos.X, ptr.vel.X = ptr.spring.Update(ptr.pos.X, ptr.vel.X, ptr.target.X)
		ptr.pos.Y, ptr.vel.Y = ptr.spring.Update(ptr.pos.Y, ptr.vel.Y, ptr.target.Y)
	}

	eff.Position = ptr.pos
	eff.Mode = ptr.mode
	eff.Active = true
}
