package main

import (
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/softbody/config"
)

func TestLayout_SpreadsAcrossWorld(t *testing.T) {
	cfg := config.Default()
	got := layout(cfg, 4)
	if len(got) != 4 {
		t.Fatalf("layout returned %d placements, want 4", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CenterX <= got[i-1].CenterX {
			t.Errorf("placements not increasing: %v then %v", got[i-1].CenterX, got[i].CenterX)
		}
	}
	half := cfg.World.Width / 2
	if got[0].CenterX < -half || got[3].CenterX > half {
		t.Errorf("placements outside world: %v .. %v", got[0].CenterX, got[3].CenterX)
	}
}

func TestBench_SettlesAndReports(t *testing.T) {
	cfg := config.Default()
	cfg.Bodies = layout(cfg, 2)

	res, err := bench(cfg, 4*time.Second, 3)
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	if res.frames == 0 || res.timedSteps == 0 || res.substeps <= res.timedSteps {
		t.Errorf("counters = %+v", res)
	}
	if res.worstArea > areaTolerance {
		t.Errorf("area error after settle = %v, want <= %v", res.worstArea, areaTolerance)
	}

	out := report(cfg, res)
	for _, want := range []string{"softbody bench", "2 × 16", "area error at rest"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
