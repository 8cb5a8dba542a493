package config

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/softbody/physics"
)

var (
	ErrNoBodies        = errors.New("at least one body placement is required")
	ErrInvalidWorld    = errors.New("invalid world bounds")
	ErrInvalidEffector = errors.New("invalid effector")
	ErrInvalidRender   = errors.New("invalid render settings")
	ErrInvalidAudio    = errors.New("invalid audio settings")
	ErrInvalidStream   = errors.New("invalid stream settings")
)

// Validate reports every invalid field joined into one error
func (c *Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(c.Settings().Validate())

	if len(c.Bodies) == 0 {
		add(ErrNoBodies)
	}
	for i, spec := range c.BodySpecs() {
		if err := spec.Spec.Validate(); err != nil {
			add(fmt.Errorf("bodies[%d]: %w", i, err))
		}
	}

	w := c.World
	if !(w.Width > 0 && w.Height > 0) {
		add(fmt.Errorf("world %vx%v: %w", w.Width, w.Height, ErrInvalidWorld))
	}
	if !(w.ParticleRadius >= 0) {
		add(fmt.Errorf("particle radius %v: %w", w.ParticleRadius, ErrInvalidWorld))
	}
	if !(w.Restitution >= 0 && w.Restitution <= 1) {
		add(fmt.Errorf("restitution %v not in [0, 1]: %w", w.Restitution, ErrInvalidWorld))
	}

	e := c.Effector
	if !(e.Radius > 0) || !(e.Strength >= 0) {
		add(fmt.Errorf("radius %v strength %v: %w", e.Radius, e.Strength, ErrInvalidEffector))
	}
	if _, ok := physics.ParseEffectorMode(e.Mode); !ok {
		add(fmt.Errorf("mode %q: %w", e.Mode, ErrInvalidEffector))
	}
	if !(e.SmoothingFrequency > 0) || !(e.SmoothingDamping >= 0) {
		add(fmt.Errorf("smoothing %v/%v: %w", e.SmoothingFrequency, e.SmoothingDamping, ErrInvalidEffector))
	}

	r := c.Render
	if r.FrameInterval <= 0 || r.MaxFrameDelta < 0 || !(r.CellAspect > 0) {
		add(fmt.Errorf("interval %v max delta %v aspect %v: %w", r.FrameInterval, r.MaxFrameDelta, r.CellAspect, ErrInvalidRender))
	}

	a := c.Audio
	// Top pitch must stay under Nyquist for the sine generator
	if a.Enabled && (a.SampleRate <= 0 || !(a.BaseFreq > 0) || a.FreqSpan < 0 || a.CueDuration <= 0 || a.MinGap < 0 ||
		a.BaseFreq+a.FreqSpan >= float64(a.SampleRate)/2) {
		add(fmt.Errorf("rate %d base %v span %v cue %v gap %v: %w", a.SampleRate, a.BaseFreq, a.FreqSpan, a.CueDuration, a.MinGap, ErrInvalidAudio))
	}

	s := c.Stream
	if s.SendQueueSize < 1 || s.MaxPeers < 1 || s.WriteTimeout <= 0 || s.PingInterval <= 0 || s.PongWait <= s.PingInterval {
		add(fmt.Errorf("queue %d peers %d write %v ping %v pong %v: %w", s.SendQueueSize, s.MaxPeers, s.WriteTimeout, s.PingInterval, s.PongWait, ErrInvalidStream))
	}

	return errors.Join(errs...)
}
