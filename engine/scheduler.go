package engine

import (
	"fmt"
	"math"
	"time"
)

// Scheduler converts variable frame time into whole fixed-size substeps
// Idle while Accumulated < FixedDT, stepping until the remainder drops below
// FixedDT or the per-frame cap is hit; surplus time is carried to the next call
type Scheduler struct {
	fixedDT     time.Duration
	dt          float64
	maxSubsteps int

	accumulated time.Duration
	lastRun     int
	overloaded  bool
}

// NewScheduler creates a scheduler stepping at hz, running at most maxSubsteps per Advance
func NewScheduler(hz float64, maxSubsteps int) (*Scheduler, error) {
	if !(hz > 0) || math.IsInf(hz, 0) {
		return nil, fmt.Errorf("scheduler at %v Hz: %w", hz, ErrInvalidPhysicsHz)
	}
	// Substeps consume whole nanoseconds but simulate exactly 1/hz seconds
	// At 120 Hz that is 40ns of wall time per simulated second, carried in Accumulated
	fixed := time.Duration(math.Round(float64(time.Second) / hz))
	if fixed <= 0 {
		return nil, fmt.Errorf("scheduler at %v Hz rounds to zero step: %w", hz, ErrInvalidPhysicsHz)
	}
	if maxSubsteps < 1 {
		return nil, fmt.Errorf("scheduler cap %d: %w", maxSubsteps, ErrInvalidSubstepCap)
	}
	return &Scheduler{
		fixedDT:     fixed,
		dt:          1 / hz,
		maxSubsteps: maxSubsteps,
	}, nil
}

// Advance accumulates elapsed time and runs step once per whole FixedDT, up to the cap
// Negative elapsed counts as zero. Returns the number of substeps run
func (s *Scheduler) Advance(elapsed time.Duration, step func()) int {
	if elapsed > 0 {
		s.accumulated += elapsed
	}

	n := 0
	for s.accumulated >= s.fixedDT && n < s.maxSubsteps {
		step()
		s.accumulated -= s.fixedDT
		n++
	}

	s.lastRun = n
	s.overloaded = s.accumulated >= s.fixedDT
	return n
}

// Overloaded reports whether the last Advance stopped at the cap with whole substeps left over
func (s *Scheduler) Overloaded() bool {
	return s.overloaded
}

// LastSubsteps returns substeps run by the last Advance
func (s *Scheduler) LastSubsteps() int {
	return s.lastRun
}

// Accumulated returns carried time not yet consumed by a substep
func (s *Scheduler) Accumulated() time.Duration {
	return s.accumulated
}

// Alpha returns the fraction of a substep carried over, clamped to [0, 1]
func (s *Scheduler) Alpha() float64 {
	a := float64(s.accumulated) / float64(s.fixedDT)
	return math.Min(math.Max(a, 0), 1)
}

// FixedDT returns the substep length rounded to the nanosecond
func (s *Scheduler) FixedDT() time.Duration {
	return s.fixedDT
}

// Dt returns the substep length in seconds, 1/hz
func (s *Scheduler) Dt() float64 {
	return s.dt
}

// MaxSubsteps returns the per-Advance cap
func (s *Scheduler) MaxSubsteps() int {
	return s.maxSubsteps
}

// Reset drops any carried time
func (s *Scheduler) Reset() {
	s.accumulated = 0
	s.lastRun = 0
	s.overloaded = false
}
