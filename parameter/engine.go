package parameter

import "time"

// Driver loop timing
const (
	// FrameUpdateInterval is the rendering frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxFrameDelta clamps a single frame's elapsed time before it reaches the scheduler
	// Covers process suspension and debugger stops
	MaxFrameDelta = 250 * time.Millisecond

	// OverloadLogInterval throttles overload warnings
	OverloadLogInterval = time.Second

	// StatusLogInterval paces the headless status line
	StatusLogInterval = 5 * time.Second
)
