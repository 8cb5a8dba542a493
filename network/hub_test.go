package network

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gorilla/websocket"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/physics"
	"github.com/lixenwraith/softbody/status"
	"gonum.org/v1/gonum/spatial/r2"
)

func newTestSimulation(t *testing.T) *engine.Simulation {
	t.Helper()
	sim, err := engine.NewSimulation(engine.DefaultSettings(), 16, nil)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	_, err = sim.AddBody(physics.BodySpec{
		Center: r2.Vec{X: 10, Y: -5},
		Points: 8, Radius: 20, Mass: 1, Stiffness: 1, DilationStiffness: 1, Puffiness: 1,
	}, r2.Vec{})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	return sim
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.WriteTimeout = time.Second
	cfg.PingInterval = time.Second
	cfg.PongWait = 5 * time.Second
	return cfg
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%s): %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

// waitFor polls cond until it holds or a second passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) *Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	f, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame(%s): %v", data, err)
	}
	return f
}

func TestHub_BroadcastsOnlyChangedFrames(t *testing.T) {
	sim := newTestSimulation(t)
	reg := status.NewRegistry()
	hub := NewHub(testConfig(), reg)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	defer hub.peers.Close()

	conn := dial(t, wsURL(srv, hub.config.Path))
	waitFor(t, "peer registration", func() bool { return hub.PeerCount() == 1 })

	// Body creation marked the tracker
	hub.ConsumeFrame(sim)
	f := readFrame(t, conn)
	if f.Seq != 1 || len(f.Bodies) != 1 || len(f.Bodies[0]) != 8 || len(f.AreaRatio) != 1 {
		t.Fatalf("first frame shape wrong:\n%s", spew.Sdump(f))
	}
	if math.Abs(f.AreaRatio[0]-1) > 1e-9 {
		t.Errorf("area_ratio = %v, want 1", f.AreaRatio[0])
	}
	if p := f.Bodies[0][0]; math.Abs(p[0]-30) > 1e-9 || math.Abs(p[1]+5) > 1e-9 {
		t.Errorf("first point = %v, want [30 -5]", p)
	}

	// Clean frame sends nothing
	hub.ConsumeFrame(sim)
	_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Fatalf("unexpected frame on clean tick: %s", data)
	}

	// A read deadline poisons the gorilla conn, redial for the next frame
	conn2 := dial(t, wsURL(srv, hub.config.Path))
	if f := readFrame(t, conn2); f.Seq != 1 {
		t.Errorf("late joiner welcome seq = %d, want 1", f.Seq)
	}

	sim.Tracker().Mark()
	hub.ConsumeFrame(sim)
	if f := readFrame(t, conn2); f.Seq != 2 {
		t.Errorf("seq after mark = %d, want 2", f.Seq)
	}
	if got := reg.Ints.Get("stream.frames").Load(); got != 2 {
		t.Errorf("stream.frames = %d, want 2", got)
	}
}

func TestHub_DoesNotStealDirtyFlag(t *testing.T) {
	sim := newTestSimulation(t)
	hub := NewHub(testConfig(), status.NewRegistry())

	hub.ConsumeFrame(sim)
	if !sim.Tracker().Consume() {
		t.Error("hub cleared the dirty flag")
	}
}

func TestHub_RejectsPastMaxPeers(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPeers = 1
	hub := NewHub(cfg, status.NewRegistry())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	defer hub.peers.Close()

	dial(t, wsURL(srv, cfg.Path))
	waitFor(t, "peer registration", func() bool { return hub.PeerCount() == 1 })

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, cfg.Path), nil)
	if err == nil {
		t.Fatal("second peer accepted past MaxPeers")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("rejection response = %v, want 503", resp)
	}
}

func TestPeerManager_DropsSlowPeer(t *testing.T) {
	cfg := testConfig()
	cfg.SendQueueSize = 1
	pm := NewPeerManager(cfg)

	// No write loop drains this peer
	slow := newPeer(1, nil, cfg.SendQueueSize)
	if err := pm.add(slow); err != nil {
		t.Fatalf("add: %v", err)
	}

	if got := pm.Broadcast([]byte("a")); got != 1 {
		t.Fatalf("first Broadcast queued for %d peers, want 1", got)
	}
	if got := pm.Broadcast([]byte("b")); got != 0 {
		t.Errorf("second Broadcast queued for %d peers, want 0", got)
	}

	select {
	case <-slow.Done():
	case <-time.After(time.Second):
		t.Fatal("slow peer not closed")
	}
	waitFor(t, "slow peer removal", func() bool { return pm.PeerCount() == 0 })
	if pm.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", pm.Dropped())
	}
	if slow.Send([]byte("c")) {
		t.Error("closed peer accepted a frame")
	}
}

func TestHub_StartStop(t *testing.T) {
	hub := NewHub(testConfig(), status.NewRegistry())
	if err := hub.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	conn := dial(t, "ws://"+hub.Addr().String()+hub.config.Path)
	waitFor(t, "peer registration", func() bool { return hub.PeerCount() == 1 })

	if err := hub.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("peer connection survived Stop")
	}
	if err := hub.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}
