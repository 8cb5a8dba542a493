package config

import (
	"github.com/lixenwraith/softbody/audio"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/network"
	"github.com/lixenwraith/softbody/physics"
	"github.com/lixenwraith/softbody/status"
	"github.com/lixenwraith/softbody/vmath"
	"gonum.org/v1/gonum/spatial/r2"
)

// BodyPlan is a body spec with its launch velocity
type BodyPlan struct {
	Spec     physics.BodySpec
	Velocity r2.Vec
}

// Settings returns the engine settings
func (c *Config) Settings() engine.Settings {
	p := c.Physics
	return engine.Settings{
		PhysicsHz:            p.Hz,
		ConstraintIterations: p.ConstraintIterations,
		DampingPerSecond:     p.DampingPerSecond,
		MaxSubstepsPerFrame:  p.MaxSubstepsPerFrame,
		Gravity:              r2.Vec{X: p.GravityX, Y: p.GravityY},
		MovementEpsilon:      p.MovementEpsilon,
	}
}

// BodySpecs merges each placement over the body template
func (c *Config) BodySpecs() []BodyPlan {
	plans := make([]BodyPlan, 0, len(c.Bodies))
	for _, pl := range c.Bodies {
		spec := physics.BodySpec{
			Center:            r2.Vec{X: pl.CenterX, Y: pl.CenterY},
			Points:            c.Body.Points,
			Radius:            c.Body.Radius,
			Mass:              c.Body.Mass,
			Stiffness:         c.Body.Stiffness,
			DilationStiffness: c.Body.DilationStiffness,
			Puffiness:         c.Body.Puffiness,
			Pinned:            pl.Pinned,
		}
		if pl.Points != 0 {
			spec.Points = pl.Points
		}
		if pl.Radius != 0 {
			spec.Radius = pl.Radius
		}
		plans = append(plans, BodyPlan{Spec: spec, Velocity: r2.Vec{X: pl.VelocityX, Y: pl.VelocityY}})
	}
	return plans
}

// Capacity returns the particle count of all placements
func (c *Config) Capacity() int {
	n := 0
	for _, p := range c.BodySpecs() {
		n += p.Spec.Points
	}
	return n
}

// Bounds returns the world clamp rectangle centered at the origin
func (c *Config) Bounds() physics.Bounds {
	return physics.Bounds{
		Box:         vmath.CenteredBox(c.World.Width, c.World.Height),
		Inset:       c.World.ParticleRadius,
		Restitution: c.World.Restitution,
	}
}

// EffectorMode returns the configured starting mode, pull if unrecognized
func (c *Config) EffectorMode() physics.EffectorMode {
	m, _ := physics.ParseEffectorMode(c.Effector.Mode)
	return m
}

// NewSimulation builds a simulation with every configured body, bounds and effector
func (c *Config) NewSimulation(reg *status.Registry) (*engine.Simulation, error) {
	sim, err := engine.NewSimulation(c.Settings(), c.Capacity(), reg)
	if err != nil {
		return nil, err
	}
	for _, plan := range c.BodySpecs() {
		if _, err := sim.AddBody(plan.Spec, plan.Velocity); err != nil {
			return nil, err
		}
	}
	sim.SetBounds(c.Bounds())

	eff := sim.Effector()
	eff.Radius = c.Effector.Radius
	eff.Strength = c.Effector.Strength
	eff.Mode = c.EffectorMode()
	return sim, nil
}

// AudioConfig returns the squish cue shaping
func (c *Config) AudioConfig() audio.Config {
	a := c.Audio
	return audio.Config{
		Enabled:            a.Enabled,
		SampleRate:         a.SampleRate,
		BaseFreq:           a.BaseFreq,
		FreqSpan:           a.FreqSpan,
		Volume:             a.Volume,
		DeviationThreshold: a.DeviationThreshold,
		CueDuration:        a.CueDuration,
		MinGap:             a.MinGap,
	}
}

// StreamConfig returns the snapshot server settings
func (c *Config) StreamConfig() *network.Config {
	s := c.Stream
	cfg := network.DefaultConfig()
	cfg.Address = s.Address
	cfg.Path = s.Path
	cfg.SendQueueSize = s.SendQueueSize
	cfg.MaxPeers = s.MaxPeers
	cfg.WriteTimeout = s.WriteTimeout
	cfg.PingInterval = s.PingInterval
	cfg.PongWait = s.PongWait
	return cfg
}
