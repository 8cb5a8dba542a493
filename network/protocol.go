package network

import (
	"encoding/json"

	"github.com/lixenwraith/softbody/engine"
	"gonum.org/v1/gonum/spatial/r2"
)

// Frame is one snapshot of every body outline as sent to peers
// Positions are world units with +Y up
type Frame struct {
	Seq       uint64         `json:"seq"`
	Bodies    [][][2]float64 `json:"bodies"`
	AreaRatio []float64      `json:"area_ratio"`
}

// frameEncoder reuses snapshot buffers between frames
type frameEncoder struct {
	snapshot [][]r2.Vec
	frame    Frame
}

// encode captures sim into a JSON frame tagged with seq
func (e *frameEncoder) encode(sim *engine.Simulation, seq uint64) ([]byte, error) {
	e.snapshot = sim.Snapshot(e.snapshot)
	bodies := sim.Bodies()

	f := &e.frame
	f.Seq = seq
	f.Bodies = resize(f.Bodies, len(e.snapshot))
	f.AreaRatio = f.AreaRatio[:0]
	for i, pts := range e.snapshot {
		out := f.Bodies[i][:0]
		for _, p := range pts {
			out = append(out, [2]float64{p.X, p.Y})
		}
		f.Bodies[i] = out
		f.AreaRatio = append(f.AreaRatio, bodies[i].AreaRatio())
	}

	return json.Marshal(f)
}

func resize(s [][][2]float64, n int) [][][2]float64 {
	for len(s) < n {
		s = append(s, nil)
	}
	return s[:n]
}

// DecodeFrame parses a frame received from a hub
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
