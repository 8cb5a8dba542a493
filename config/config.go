// Package config loads runtime settings from defaults, a TOML file, a dotenv
// file and SOFTBODY_* environment variables, in increasing precedence
package config

import (
	"time"

	"github.com/lixenwraith/softbody/parameter"
)

// Config is the full runtime configuration
type Config struct {
	Physics  PhysicsConfig  `toml:"physics"`
	Body     BodyConfig     `toml:"body"`
	Bodies   []Placement    `toml:"bodies"`
	Effector EffectorConfig `toml:"effector"`
	World    WorldConfig    `toml:"world"`
	Render   RenderConfig   `toml:"render"`
	Audio    AudioConfig    `toml:"audio"`
	Stream   StreamConfig   `toml:"stream"`
}

// PhysicsConfig maps onto engine.Settings
type PhysicsConfig struct {
	Hz                   float64 `toml:"hz"`
	ConstraintIterations int     `toml:"constraint_iterations"`
	DampingPerSecond     float64 `toml:"damping_per_second"`
	MaxSubstepsPerFrame  int     `toml:"max_substeps_per_frame"`
	GravityX             float64 `toml:"gravity_x"`
	GravityY             float64 `toml:"gravity_y"`
	MovementEpsilon      float64 `toml:"movement_epsilon"`
}

// BodyConfig is the template every placed body starts from
type BodyConfig struct {
	Points            int     `toml:"points"`
	Radius            float64 `toml:"radius"`
	Mass              float64 `toml:"mass"`
	Stiffness         float64 `toml:"stiffness"`
	DilationStiffness float64 `toml:"dilation_stiffness"`
	Puffiness         float64 `toml:"puffiness"`
}

// Placement positions one body; zero Points or Radius inherit the template
type Placement struct {
	CenterX   float64 `toml:"center_x"`
	CenterY   float64 `toml:"center_y"`
	VelocityX float64 `toml:"velocity_x"`
	VelocityY float64 `toml:"velocity_y"`
	Points    int     `toml:"points,omitempty"`
	Radius    float64 `toml:"radius,omitempty"`
	Pinned    []int   `toml:"pinned,omitempty"`
}

// EffectorConfig sets the cursor influence
type EffectorConfig struct {
	Radius             float64 `toml:"radius"`
	Strength           float64 `toml:"strength"`
	Mode               string  `toml:"mode"`
	SmoothingFrequency float64 `toml:"smoothing_frequency"`
	SmoothingDamping   float64 `toml:"smoothing_damping"`
}

// WorldConfig sets the clamping rectangle, centered at the origin
type WorldConfig struct {
	Width          float64 `toml:"width"`
	Height         float64 `toml:"height"`
	ParticleRadius float64 `toml:"particle_radius"`
	Restitution    float64 `toml:"restitution"`
}

// RenderConfig sets terminal frame pacing and layout
type RenderConfig struct {
	FrameInterval time.Duration `toml:"frame_interval"`
	MaxFrameDelta time.Duration `toml:"max_frame_delta"`
	CellAspect    float64       `toml:"cell_aspect"`
	ShowHUD       bool          `toml:"show_hud"`
}

// AudioConfig shapes the squish cue
type AudioConfig struct {
	Enabled            bool          `toml:"enabled"`
	SampleRate         int           `toml:"sample_rate"`
	BaseFreq           float64       `toml:"base_freq"`
	FreqSpan           float64       `toml:"freq_span"`
	Volume             float64       `toml:"volume"`
	DeviationThreshold float64       `toml:"deviation_threshold"`
	CueDuration        time.Duration `toml:"cue_duration"`
	MinGap             time.Duration `toml:"min_gap"`
}

// StreamConfig sets the websocket snapshot server
type StreamConfig struct {
	Address       string        `toml:"address"`
	Path          string        `toml:"path"`
	SendQueueSize int           `toml:"send_queue_size"`
	MaxPeers      int           `toml:"max_peers"`
	WriteTimeout  time.Duration `toml:"write_timeout"`
	PingInterval  time.Duration `toml:"ping_interval"`
	PongWait      time.Duration `toml:"pong_wait"`
}

// Default returns the built-in configuration: one body at the origin
func Default() *Config {
	return &Config{
		Physics: PhysicsConfig{
			Hz:                   parameter.PhysicsHz,
			ConstraintIterations: parameter.ConstraintIterations,
			DampingPerSecond:     parameter.DampingPerSecond,
			MaxSubstepsPerFrame:  parameter.MaxSubstepsPerFrame,
			GravityX:             parameter.GravityX,
			GravityY:             parameter.GravityY,
			MovementEpsilon:      parameter.MovementEpsilon,
		},
		Body: BodyConfig{
			Points:            parameter.BodyPoints,
			Radius:            parameter.BodyRadius,
			Mass:              parameter.BodyMass,
			Stiffness:         parameter.BodyStiffness,
			DilationStiffness: parameter.BodyDilationStiffness,
			Puffiness:         parameter.BodyPuffiness,
		},
		Bodies: []Placement{{}},
		Effector: EffectorConfig{
			Radius:             parameter.EffectorRadius,
			Strength:           parameter.EffectorStrength,
			Mode:               "pull",
			SmoothingFrequency: parameter.EffectorSmoothingFrequency,
			SmoothingDamping:   parameter.EffectorSmoothingDamping,
		},
		World: WorldConfig{
			Width:          parameter.WorldWidth,
			Height:         parameter.WorldHeight,
			ParticleRadius: parameter.WorldParticleRadius,
			Restitution:    parameter.WorldRestitution,
		},
		Render: RenderConfig{
			FrameInterval: parameter.FrameUpdateInterval,
			MaxFrameDelta: parameter.MaxFrameDelta,
			CellAspect:    parameter.CellAspect,
			ShowHUD:       true,
		},
		Audio: AudioConfig{
			Enabled:            true,
			SampleRate:         parameter.AudioSampleRate,
			BaseFreq:           parameter.SquishBaseFreq,
			FreqSpan:           parameter.SquishFreqSpan,
			Volume:             parameter.SquishVolume,
			DeviationThreshold: parameter.SquishDeviationThreshold,
			CueDuration:        parameter.SquishDuration,
			MinGap:             parameter.SquishMinGap,
		},
		Stream: StreamConfig{
			Address:       parameter.StreamAddress,
			Path:          parameter.StreamPath,
			SendQueueSize: parameter.StreamSendQueueSize,
			MaxPeers:      parameter.StreamMaxPeers,
			WriteTimeout:  parameter.StreamWriteTimeout,
			PingInterval:  parameter.StreamPingInterval,
			PongWait:      parameter.StreamPongWait,
		},
	}
}
