package parameter

import "time"

// Terminal layout
const (
	// CellAspect is terminal cell height over width; world Y is scaled by it
	CellAspect = 2.0

	// HUDLines reserved at the top of the screen for status text
	HUDLines = 2

	// OutlineRune draws loop edges, ParticleRune draws particles
	OutlineRune  = '·'
	ParticleRune = '●'
	PinnedRune   = '■'
	EffectorRune = '∘'
)

// Network stream defaults
const (
	StreamAddress       = ":7777"
	StreamPath          = "/ws"
	StreamSendQueueSize = 16
	StreamMaxPeers      = 16

	// StreamWriteTimeout bounds a single frame write to a peer
	StreamWriteTimeout = 2 * time.Second

	// StreamPingInterval keeps idle connections alive; must be below StreamPongWait
	StreamPingInterval = 25 * time.Second
	StreamPongWait     = 60 * time.Second
)
