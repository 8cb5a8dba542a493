// softbody-bench drives the simulation on a mock clock and reports timing,
// allocations and shape fidelity
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lixenwraith/softbody/config"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/input"
	"github.com/lixenwraith/softbody/parameter"
	"github.com/lixenwraith/softbody/status"
)

var (
	title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	label = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(22)
	value = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	good  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	bad   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	box   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

var (
	configFlag  = flag.String("config", "", "TOML config file")
	bodiesFlag  = flag.Int("bodies", 4, "bodies laid out in a row")
	pointsFlag  = flag.Int("points", parameter.BodyPoints, "particles per body")
	secondsFlag = flag.Float64("seconds", 30, "simulated seconds")
	seedFlag    = flag.Int64("seed", parameter.WanderSeed, "wander path seed")
)

// areaTolerance is the rest-area error accepted after the settle phase
const areaTolerance = 0.01

// result is one bench run
type result struct {
	frames        int64
	substeps      int64
	timedSteps    int64 // substeps inside the timed wander phase
	wall          time.Duration
	mallocs       uint64
	bytes         uint64
	worstArea     float64
	worstEdge     float64
	overloadFrame int64
}

func main() {
	flag.Parse()

	cfg, err := config.Load(config.Source{File: *configFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "softbody-bench: %v\n", err)
		os.Exit(1)
	}
	cfg.Body.Points = *pointsFlag
	cfg.Bodies = layout(cfg, *bodiesFlag)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "softbody-bench: %v\n", err)
		os.Exit(1)
	}

	res, err := bench(cfg, time.Duration(*secondsFlag*float64(time.Second)), *seedFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "softbody-bench: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(report(cfg, res))
}

// layout spaces n bodies across the world width
func layout(cfg *config.Config, n int) []config.Placement {
	n = max(n, 1)
	step := cfg.World.Width / float64(n)
	out := make([]config.Placement, n)
	for i := range out {
		out[i].CenterX = -cfg.World.Width/2 + step*(float64(i)+0.5)
	}
	return out
}

// bench runs the wander phase for the given span, then half that span with
// the effector released so shape fidelity can be measured at rest
func bench(cfg *config.Config, span time.Duration, seed int64) (result, error) {
	var res result

	reg := status.NewRegistry()
	sim, err := cfg.NewSimulation(reg)
	if err != nil {
		return res, err
	}

	mock := engine.NewMockTimeProvider(time.Unix(0, 0))
	clock := engine.NewClock(mock, cfg.Render.MaxFrameDelta)
	driver := engine.NewDriver(sim, clock)
	wander := input.NewWander(cfg.Bounds().Box, cfg.EffectorMode(), seed)
	driver.AddSource(wander)

	interval := cfg.Render.FrameInterval
	frames := int(span / interval)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	start := time.Now()

	for range frames {
		mock.Advance(interval)
		driver.Frame()
	}

	res.wall = time.Since(start)
	runtime.ReadMemStats(&after)
	res.timedSteps = reg.Ints.Get("physics.substeps").Load()
	res.mallocs = after.Mallocs - before.Mallocs
	res.bytes = after.TotalAlloc - before.TotalAlloc

	// Settle without the wander source
	settle := engine.NewDriver(sim, clock)
	sim.Effector().Active = false
	for range frames / 2 {
		mock.Advance(interval)
		settle.Frame()
	}

	res.frames = reg.Ints.Get("engine.frames").Load()
	res.substeps = reg.Ints.Get("physics.substeps").Load()
	res.overloadFrame = reg.Ints.Get("physics.overload_frames").Load()
	for _, b := range sim.Bodies() {
		res.worstArea = math.Max(res.worstArea, math.Abs(b.AreaRatio()-1))
		res.worstEdge = math.Max(res.worstEdge, b.MaxConstraintError())
	}
	return res, nil
}

func report(cfg *config.Config, r result) string {
	row := func(k, v string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, label.Render(k), value.Render(v))
	}

	perStep := time.Duration(0)
	if r.timedSteps > 0 {
		perStep = r.wall / time.Duration(r.timedSteps)
	}

	verdict := good.Render("ok")
	if r.worstArea > areaTolerance {
		verdict = bad.Render("drifted")
	}

	particles := 0
	for _, p := range cfg.BodySpecs() {
		particles += p.Spec.Points
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title.Render("softbody bench"),
		"",
		row("bodies × particles", fmt.Sprintf("%d × %d", len(cfg.Bodies), cfg.Body.Points)),
		row("physics", fmt.Sprintf("%.0f Hz, %d iterations", cfg.Physics.Hz, cfg.Physics.ConstraintIterations)),
		row("effector", fmt.Sprintf("%s r=%.0f", cfg.EffectorMode(), cfg.Effector.Radius)),
		row("frames / substeps", fmt.Sprintf("%d / %d", r.frames, r.substeps)),
		row("overloaded frames", fmt.Sprintf("%d", r.overloadFrame)),
		row("wall (wander phase)", r.wall.String()),
		row("per substep", fmt.Sprintf("%v (%.1f ns/particle)", perStep, float64(perStep)/float64(max(particles, 1)))),
		row("allocs (wander phase)", fmt.Sprintf("%d (%d B)", r.mallocs, r.bytes)),
		row("max edge error", fmt.Sprintf("%.4f", r.worstEdge)),
		row("area error at rest", fmt.Sprintf("%.4f%% %s", r.worstArea*100, verdict)),
	)
	return box.Render(body)
}
