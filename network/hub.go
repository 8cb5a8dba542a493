package network

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/status"
)

// Hub streams body outlines to websocket peers
// A frame is broadcast only when the simulation has marked a change since the
// last one; the dirty flag itself is left for the renderer
// Implements engine.FrameConsumer
type Hub struct {
	config   *Config
	peers    *PeerManager
	upgrader websocket.Upgrader

	server   *http.Server
	listener net.Listener
	running  atomic.Bool
	wg       sync.WaitGroup

	// Frame state, touched only by ConsumeFrame
	encoder frameEncoder
	seq     uint64
	lastGen uint64

	// Latest frame for new peers
	mu   sync.Mutex
	last []byte

	statPeers   *atomic.Int64
	statFrames  *atomic.Int64
	statDropped *atomic.Int64
}

// NewHub creates a hub; Start binds it, or mount Handler on an existing server
func NewHub(cfg *Config, reg *status.Registry) *Hub {
	return &Hub{
		config: cfg,
		peers:  NewPeerManager(cfg),
		upgrader: websocket.Upgrader{
			// Read-only snapshot feed, any origin may watch
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		statPeers:   reg.Ints.Get("stream.peers"),
		statFrames:  reg.Ints.Get("stream.frames"),
		statDropped: reg.Ints.Get("stream.dropped"),
	}
}

// Handler returns the HTTP handler serving the websocket endpoint at cfg.Path
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(h.config.Path, h.serveWS)
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	if !h.peers.Reserve() {
		http.Error(w, ErrMaxPeers.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		log.Printf("stream upgrade from %s: %v", r.RemoteAddr, err)
		return
	}

	h.mu.Lock()
	welcome := h.last
	h.mu.Unlock()

	id, err := h.peers.AddConnection(conn, welcome)
	if err != nil {
		log.Printf("stream peer %s rejected: %v", r.RemoteAddr, err)
		return
	}
	log.Printf("stream peer %d connected from %s", id, r.RemoteAddr)
}

// Start binds cfg.Address and serves in the background
func (h *Hub) Start() error {
	if !h.running.CompareAndSwap(false, true) {
		return nil
	}

	ln, err := net.Listen("tcp", h.config.Address)
	if err != nil {
		h.running.Store(false)
		return fmt.Errorf("stream listen %s: %w", h.config.Address, err)
	}
	h.listener = ln
	h.server = &http.Server{Handler: h.Handler()}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("stream server: %v", err)
		}
	}()

	log.Printf("stream listening on %s%s", ln.Addr(), h.config.Path)
	return nil
}

// Stop closes the listener and every peer
func (h *Hub) Stop() error {
	if !h.running.CompareAndSwap(true, false) {
		return nil
	}

	// Hijacked websocket conns are not tracked by the server
	err := h.server.Close()
	h.peers.Close()
	h.wg.Wait()
	return err
}

// Addr returns the bound address, nil before Start
func (h *Hub) Addr() net.Addr {
	if h.listener == nil {
		return nil
	}
	return h.listener.Addr()
}

// PeerCount returns connected peers
func (h *Hub) PeerCount() int {
	return h.peers.PeerCount()
}

// ConsumeFrame broadcasts a frame if the simulation changed since the last one
func (h *Hub) ConsumeFrame(sim *engine.Simulation) {
	gen := sim.Tracker().Generation()
	h.statPeers.Store(int64(h.peers.PeerCount()))
	if gen == h.lastGen {
		return
	}
	h.lastGen = gen

	h.seq++
	msg, err := h.encoder.encode(sim, h.seq)
	if err != nil {
		log.Printf("stream encode frame %d: %v", h.seq, err)
		return
	}

	h.mu.Lock()
	h.last = msg
	h.mu.Unlock()

	h.peers.Broadcast(msg)
	h.statFrames.Add(1)
	h.statDropped.Store(h.peers.Dropped())
}
