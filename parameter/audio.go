package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate     = 44100
	AudioBufferDuration = 100 * time.Millisecond
)

// Squish cue shaping
const (
	// SquishBaseFreq is the tone at rest area, Hz
	SquishBaseFreq = 220.0

	// SquishFreqSpan is added per unit of relative area deviation, Hz
	SquishFreqSpan = 440.0

	// SquishDuration of a single cue
	SquishDuration = 40 * time.Millisecond

	// SquishMinGap between consecutive cues
	SquishMinGap = 60 * time.Millisecond

	// SquishDeviationThreshold is the relative area deviation below which no cue plays
	SquishDeviationThreshold = 0.02

	// SquishVolume is the beep/effects.Volume base-2 exponent at full deviation
	SquishVolume = -1.0
)
