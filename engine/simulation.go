package engine

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/softbody/parameter"
	"github.com/lixenwraith/softbody/physics"
	"github.com/lixenwraith/softbody/status"
	"gonum.org/v1/gonum/spatial/r2"
)

// Settings holds the physics configuration validated at construction
type Settings struct {
	PhysicsHz            float64
	ConstraintIterations int
	DampingPerSecond     float64
	MaxSubstepsPerFrame  int
	Gravity              r2.Vec
	MovementEpsilon      float64
}

// DefaultSettings returns settings from parameter constants
func DefaultSettings() Settings {
	return Settings{
		PhysicsHz:            parameter.PhysicsHz,
		ConstraintIterations: parameter.ConstraintIterations,
		DampingPerSecond:     parameter.DampingPerSecond,
		MaxSubstepsPerFrame:  parameter.MaxSubstepsPerFrame,
		Gravity:              r2.Vec{X: parameter.GravityX, Y: parameter.GravityY},
		MovementEpsilon:      parameter.MovementEpsilon,
	}
}

// Validate reports every invalid field
func (s Settings) Validate() error {
	var errs []error
	if !(s.PhysicsHz > 0) || math.IsInf(s.PhysicsHz, 0) {
		errs = append(errs, fmt.Errorf("physics hz %v: %w", s.PhysicsHz, ErrInvalidPhysicsHz))
	}
	if s.ConstraintIterations < 1 {
		errs = append(errs, fmt.Errorf("constraint iterations %d: %w", s.ConstraintIterations, ErrInvalidIterations))
	}
	if !(s.DampingPerSecond > 0 && s.DampingPerSecond <= 1) {
		errs = append(errs, fmt.Errorf("damping per second %v: %w", s.DampingPerSecond, ErrInvalidDamping))
	}
	if s.MaxSubstepsPerFrame < 1 {
		errs = append(errs, fmt.Errorf("max substeps %d: %w", s.MaxSubstepsPerFrame, ErrInvalidSubstepCap))
	}
	if !(s.MovementEpsilon >= 0) {
		errs = append(errs, fmt.Errorf("movement epsilon %v: %w", s.MovementEpsilon, ErrInvalidEpsilon))
	}
	return errors.Join(errs...)
}

// Simulation owns the particle store, bodies and per-substep state
// All mutation happens inside Advance/Step on the driving goroutine
type Simulation struct {
	settings  Settings
	store     *physics.Store
	bodies    []*physics.SoftBody
	solver    *physics.Solver
	scheduler *Scheduler
	tracker   ChangeTracker

	effector  physics.Effector
	bounds    physics.Bounds
	hasBounds bool

	dt      float64
	damping float64
	epsSq   float64

	// Positions before the current substep, indexed by store index
	before []r2.Vec
	stepFn func()

	// Cached metric pointers
	statusReg         *status.Registry
	statSubsteps      *atomic.Int64
	statFrameSubsteps *atomic.Int64
	statOverload      *atomic.Int64
	statDirtyMarks    *atomic.Int64
	statBodies        *atomic.Int64
	statAreaRatio     *status.AtomicFloat
	statEffectorMode  *status.AtomicString
	lastMode          physics.EffectorMode
}

// NewSimulation creates an empty simulation with room for capacity particles
// A nil registry gets a private one
func NewSimulation(settings Settings, capacity int, reg *status.Registry) (*Simulation, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid physics settings: %w", err)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("capacity %d: %w", capacity, ErrInvalidCapacity)
	}

	scheduler, err := NewScheduler(settings.PhysicsHz, settings.MaxSubstepsPerFrame)
	if err != nil {
		return nil, err
	}
	solver, err := physics.NewSolver(settings.ConstraintIterations)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = status.NewRegistry()
	}

	s := &Simulation{
		settings:  settings,
		store:     physics.NewStore(capacity),
		solver:    solver,
		scheduler: scheduler,
		effector: physics.Effector{
			Radius:   parameter.EffectorRadius,
			Strength: parameter.EffectorStrength,
		},
		dt:                scheduler.Dt(),
		damping:           physics.DampingFactor(settings.DampingPerSecond, scheduler.Dt()),
		epsSq:             settings.MovementEpsilon * settings.MovementEpsilon,
		before:            make([]r2.Vec, capacity),
		statusReg:         reg,
		statSubsteps:      reg.Ints.Get("physics.substeps"),
		statFrameSubsteps: reg.Ints.Get("physics.frame_substeps"),
		statOverload:      reg.Ints.Get("physics.overload_frames"),
		statDirtyMarks:    reg.Ints.Get("physics.dirty_marks"),
		statBodies:        reg.Ints.Get("physics.bodies"),
		statAreaRatio:     reg.Floats.Get("body.area_ratio"),
		statEffectorMode:  reg.Strings.Get("effector.mode"),
	}
	s.stepFn = s.Step
	s.statEffectorMode.Store(s.effector.Mode.String())

	return s, nil
}

// AddBody builds a soft body in the store and launches it at v0 (units per second)
func (s *Simulation) AddBody(spec physics.BodySpec, v0 r2.Vec) (*physics.SoftBody, error) {
	b, err := physics.NewSoftBody(s.store, spec)
	if err != nil {
		return nil, fmt.Errorf("add body %d: %w", len(s.bodies), err)
	}
	if v0 != (r2.Vec{}) {
		b.Launch(v0, s.dt)
	}
	s.bodies = append(s.bodies, b)
	s.statBodies.Store(int64(len(s.bodies)))
	s.statAreaRatio.Set(s.bodies[0].AreaRatio())
	s.tracker.Mark()
	return b, nil
}

// Advance feeds elapsed frame time to the scheduler and runs whole substeps
// Returns substeps run, never more than MaxSubstepsPerFrame
func (s *Simulation) Advance(elapsed time.Duration) int {
	n := s.scheduler.Advance(elapsed, s.stepFn)

	s.statFrameSubsteps.Store(int64(n))
	if s.scheduler.Overloaded() {
		s.statOverload.Add(1)
	}
	if n > 0 && len(s.bodies) > 0 {
		s.statAreaRatio.Set(s.bodies[0].AreaRatio())
	}
	if s.effector.Mode != s.lastMode {
		s.lastMode = s.effector.Mode
		s.statEffectorMode.Store(s.effector.Mode.String())
	}
	return n
}

// Step runs one fixed substep: effector, integration, relaxation, dilation,
// bounds clamp, then movement detection against pre-substep positions
func (s *Simulation) Step() {
	n := s.store.Len()
	for i := 0; i < n; i++ {
		s.before[i] = s.store.At(i).Position
	}

	for _, b := range s.bodies {
		loop := b.Loop()
		s.effector.Apply(s.store, loop)
		physics.IntegrateAll(s.store, loop, s.dt, s.damping, s.settings.Gravity)
		s.solver.Solve(b)
		if s.hasBounds {
			s.bounds.ClampAll(s.store, loop)
		}
	}

	s.statSubsteps.Add(1)
	for i := 0; i < n; i++ {
		p := s.store.At(i).Position
		dx, dy := p.X-s.before[i].X, p.Y-s.before[i].Y
		if dx*dx+dy*dy > s.epsSq {
			s.tracker.Mark()
			s.statDirtyMarks.Add(1)
			return
		}
	}
}

// MaxDisplacement returns the largest particle movement of the most recent substep
func (s *Simulation) MaxDisplacement() float64 {
	var worst float64
	for i := 0; i < s.store.Len(); i++ {
		p := s.store.At(i)
		if d := r2.Norm(p.Velocity()); d > worst {
			worst = d
		}
	}
	return worst
}

// Snapshot copies every body's positions into dst, reusing its backing arrays
func (s *Simulation) Snapshot(dst [][]r2.Vec) [][]r2.Vec {
	for len(dst) < len(s.bodies) {
		dst = append(dst, nil)
	}
	dst = dst[:len(s.bodies)]
	for i, b := range s.bodies {
		dst[i] = b.Positions(dst[i][:0])
	}
	return dst
}

// Reset restores every body to its construction shape at rest and drops carried time
func (s *Simulation) Reset() {
	for _, b := range s.bodies {
		b.Reset()
	}
	s.scheduler.Reset()
	s.tracker.Mark()
}

// SetBounds installs world bounds; particles are clamped from the next substep on
func (s *Simulation) SetBounds(b physics.Bounds) {
	s.bounds = b
	s.hasBounds = true
	s.tracker.Mark()
}

// Bounds returns current bounds and whether they are active
func (s *Simulation) Bounds() (physics.Bounds, bool) {
	return s.bounds, s.hasBounds
}

// Effector returns the effector for the input collaborator to write between Advance calls
func (s *Simulation) Effector() *physics.Effector {
	return &s.effector
}

// Bodies returns the soft bodies in creation order
func (s *Simulation) Bodies() []*physics.SoftBody {
	return s.bodies
}

// Store returns the particle store, read-only outside Advance
func (s *Simulation) Store() *physics.Store {
	return s.store
}

// Tracker returns the outline dirty flag
func (s *Simulation) Tracker() *ChangeTracker {
	return &s.tracker
}

// Scheduler returns the substep scheduler
func (s *Simulation) Scheduler() *Scheduler {
	return s.scheduler
}

// Settings returns the validated settings
func (s *Simulation) Settings() Settings {
	return s.settings
}

// Status returns the metrics registry
func (s *Simulation) Status() *status.Registry {
	return s.statusReg
}
