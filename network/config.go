package network

import (
	"time"

	"github.com/lixenwraith/softbody/parameter"
)

// Config holds snapshot server configuration
type Config struct {
	// Address to bind, host:port
	Address string

	// Path of the websocket endpoint
	Path string

	// Connection limits
	MaxPeers int

	// Timing
	WriteTimeout time.Duration
	PingInterval time.Duration
	PongWait     time.Duration

	// Buffer sizes
	ReadLimit     int64
	SendQueueSize int
}

// DefaultConfig returns local-only defaults
func DefaultConfig() *Config {
	return &Config{
		Address:       parameter.StreamAddress,
		Path:          parameter.StreamPath,
		MaxPeers:      parameter.StreamMaxPeers,
		WriteTimeout:  parameter.StreamWriteTimeout,
		PingInterval:  parameter.StreamPingInterval,
		PongWait:      parameter.StreamPongWait,
		ReadLimit:     1 << 10,
		SendQueueSize: parameter.StreamSendQueueSize,
	}
}
