package network

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ErrMaxPeers is returned when the hub is full
var ErrMaxPeers = errors.New("max peers reached")

// PeerID uniquely identifies a connected peer
type PeerID uint32

// ConnState represents connection lifecycle state
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnected
	StateDisconnecting
)

// Peer is one websocket subscriber
type Peer struct {
	ID    PeerID
	Addr  string
	State atomic.Uint32 // ConnState

	conn *websocket.Conn

	// Send queue, bounded; a full queue means the peer is too slow
	sendCh chan []byte

	// Lifecycle
	closeCh   chan struct{}
	closeOnce sync.Once
}

// newPeer creates a peer over an upgraded connection
func newPeer(id PeerID, conn *websocket.Conn, sendQueueSize int) *Peer {
	p := &Peer{
		ID:      id,
		conn:    conn,
		sendCh:  make(chan []byte, sendQueueSize),
		closeCh: make(chan struct{}),
	}
	if conn != nil {
		p.Addr = conn.RemoteAddr().String()
	}
	p.State.Store(uint32(StateConnected))
	return p
}

// Send queues a frame for transmission
// Returns false if peer is disconnected or queue full
func (p *Peer) Send(msg []byte) bool {
	if ConnState(p.State.Load()) != StateConnected {
		return false
	}

	select {
	case p.sendCh <- msg:
		return true
	default:
		return false
	}
}

// Close initiates shutdown; safe to call repeatedly
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		p.State.Store(uint32(StateDisconnecting))
		close(p.closeCh)
		if p.conn != nil {
			p.conn.Close()
		}
	})
}

// Done is closed when the peer shuts down
func (p *Peer) Done() <-chan struct{} {
	return p.closeCh
}

// readLoop keeps the read deadline alive on pongs and discards client messages
// Exits on any read error, including the deadline
func (p *Peer) readLoop(cfg *Config) {
	defer p.Close()

	p.conn.SetReadLimit(cfg.ReadLimit)
	_ = p.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop sends queued frames and periodic pings
func (p *Peer) writeLoop(cfg *Config) {
	defer p.Close()

	ticker := time.NewTicker(cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.closeCh:
			return
		case msg := <-p.sendCh:
			_ = p.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// PeerManager tracks connected peers
type PeerManager struct {
	mu       sync.RWMutex
	peers    map[PeerID]*Peer
	nextID   atomic.Uint32
	maxPeers int
	config   *Config

	dropped atomic.Int64
}

// NewPeerManager creates a peer manager
func NewPeerManager(cfg *Config) *PeerManager {
	return &PeerManager{
		peers:    make(map[PeerID]*Peer),
		maxPeers: cfg.MaxPeers,
		config:   cfg,
	}
}

// Reserve reports whether another peer fits, checked before the upgrade
func (pm *PeerManager) Reserve() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers) < pm.maxPeers
}

// AddConnection registers a peer over an upgraded connection and starts its I/O loops
// welcome, if non-nil, is queued before any broadcast
func (pm *PeerManager) AddConnection(conn *websocket.Conn, welcome []byte) (PeerID, error) {
	id := PeerID(pm.nextID.Add(1))
	peer := newPeer(id, conn, pm.config.SendQueueSize)
	if welcome != nil {
		peer.Send(welcome)
	}

	if err := pm.add(peer); err != nil {
		conn.Close()
		return 0, err
	}

	go peer.readLoop(pm.config)
	go peer.writeLoop(pm.config)
	return id, nil
}

func (pm *PeerManager) add(peer *Peer) error {
	pm.mu.Lock()
	if len(pm.peers) >= pm.maxPeers {
		pm.mu.Unlock()
		return ErrMaxPeers
	}
	pm.peers[peer.ID] = peer
	pm.mu.Unlock()

	go pm.monitorPeer(peer)
	return nil
}

// monitorPeer removes the peer once it closes
func (pm *PeerManager) monitorPeer(peer *Peer) {
	<-peer.closeCh

	pm.mu.Lock()
	delete(pm.peers, peer.ID)
	pm.mu.Unlock()
}

// Broadcast queues msg for every peer; peers whose queue is full are closed
// Returns the number of peers the frame was queued for
func (pm *PeerManager) Broadcast(msg []byte) int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	sent := 0
	for _, peer := range pm.peers {
		if peer.Send(msg) {
			sent++
			continue
		}
		// Slow peers are cut rather than stalling the frame loop
		peer.Close()
		pm.dropped.Add(1)
	}
	return sent
}

// PeerCount returns connected peer count, including peers closing but not yet removed
func (pm *PeerManager) PeerCount() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Dropped returns the number of peers cut for falling behind
func (pm *PeerManager) Dropped() int64 {
	return pm.dropped.Load()
}

// Close disconnects all peers
func (pm *PeerManager) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for _, peer := range pm.peers {
		peer.Close()
	}
	pm.peers = make(map[PeerID]*Peer)
}
