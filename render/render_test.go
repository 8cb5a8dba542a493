package render

import (
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/parameter"
	"github.com/lixenwraith/softbody/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// MockScreen is a minimal mock for tcell.Screen that records cell content
type MockScreen struct {
	tcell.Screen
	width, height int
	cells         map[[2]int]rune
	shows         int
}

func newMockScreen(w, h int) *MockScreen {
	return &MockScreen{width: w, height: h, cells: make(map[[2]int]rune)}
}

func (m *MockScreen) Size() (int, int) { return m.width, m.height }
func (m *MockScreen) Show()             { m.shows++ }
func (m *MockScreen) Fill(ch rune, style tcell.Style) {
	clear(m.cells)
}
func (m *MockScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.cells[[2]int{x, y}] = mainc
}
func (m *MockScreen) GetContent(x, y int) (rune, []rune, tcell.Style, int) {
	if ch, ok := m.cells[[2]int{x, y}]; ok {
		return ch, nil, tcell.StyleDefault, 1
	}
	return ' ', nil, tcell.StyleDefault, 1
}

func (m *MockScreen) row(y int) string {
	var sb strings.Builder
	for x := 0; x < m.width; x++ {
		ch, _, _, _ := m.GetContent(x, y)
		sb.WriteRune(ch)
	}
	return sb.String()
}

func (m *MockScreen) count(ch rune) int {
	n := 0
	for _, c := range m.cells {
		if c == ch {
			n++
		}
	}
	return n
}

var testWorld = r2.Box{Max: r2.Vec{X: 640, Y: 480}}

func newTestSimulation(t *testing.T) *engine.Simulation {
	t.Helper()
	sim, err := engine.NewSimulation(engine.DefaultSettings(), 64, nil)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	_, err = sim.AddBody(physics.BodySpec{
		Center:            r2.Vec{X: 320, Y: 240},
		Points:            16,
		Radius:            100,
		Mass:              1,
		Stiffness:         1,
		DilationStiffness: 1,
		Puffiness:         1,
		Pinned:            []int{0},
	}, r2.Vec{})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	return sim
}

func TestViewport_Mapping(t *testing.T) {
	world := r2.Box{Max: r2.Vec{X: 100, Y: 50}}
	v := NewViewport(world, 0, 0, 100, 25, 2)

	tests := []struct {
		name     string
		p        r2.Vec
		col, row int
	}{
		{"top left", r2.Vec{X: 0, Y: 50}, 0, 0},
		{"bottom right", r2.Vec{X: 99.5, Y: 0.5}, 99, 24},
		{"center", r2.Vec{X: 50, Y: 25}, 50, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row := v.ToCell(tt.p)
			if col != tt.col || row != tt.row {
				t.Errorf("ToCell(%v) = (%d, %d), want (%d, %d)", tt.p, col, row, tt.col, tt.row)
			}
			back := v.ToWorld(col, row)
			if math.Abs(back.X-tt.p.X) > 0.5/v.Scale() || math.Abs(back.Y-tt.p.Y) > 0.5*v.CellAspect/v.Scale() {
				t.Errorf("ToWorld(%d, %d) = %v, not within a cell of %v", col, row, back, tt.p)
			}
		})
	}
}

func TestViewport_Letterbox(t *testing.T) {
	// Square world on a wide screen is centered horizontally
	world := r2.Box{Max: r2.Vec{X: 100, Y: 100}}
	v := NewViewport(world, 0, 0, 100, 25, 2)

	if got, want := v.Scale(), 0.5; got != want {
		t.Fatalf("Scale() = %v, want %v", got, want)
	}
	col, row := v.ToCell(r2.Vec{X: 0, Y: 100})
	if col != 25 || row != 0 {
		t.Errorf("top left maps to (%d, %d), want (25, 0)", col, row)
	}

	empty := NewViewport(world, 0, 0, 0, 10, 2)
	if !empty.Empty() {
		t.Error("zero-width viewport should be empty")
	}
}

func TestOutline_EdgesConnected(t *testing.T) {
	sim := newTestSimulation(t)
	v := NewViewport(testWorld, 0, 0, 120, 40, 2)

	var o Outline
	o.Rebuild(v, sim.Store(), sim.Bodies())

	var edges []Glyph
	var particles, pinned int
	for _, g := range o.Glyphs() {
		if !v.Contains(g.Col, g.Row) {
			t.Fatalf("glyph %+v outside viewport", g)
		}
		switch g.Kind {
		case GlyphEdge:
			edges = append(edges, g)
		case GlyphParticle:
			particles++
		case GlyphPinned:
			pinned++
		}
	}

	if particles+pinned != 16 {
		t.Errorf("particle glyphs = %d, want 16", particles+pinned)
	}
	if pinned != 1 {
		t.Errorf("pinned glyphs = %d, want 1", pinned)
	}
	for i := 1; i < len(edges); i++ {
		a, b := edges[i-1], edges[i]
		if abs(a.Col-b.Col) > 1 || abs(a.Row-b.Row) > 1 {
			t.Fatalf("outline gap between %+v and %+v", a, b)
		}
	}
	first, last := edges[0], edges[len(edges)-1]
	if first.Col != last.Col || first.Row != last.Row {
		t.Errorf("outline not closed: starts %+v ends %+v", first, last)
	}
}

func TestRenderer_RebuildsOnlyWhenDirty(t *testing.T) {
	sim := newTestSimulation(t)
	screen := newMockScreen(100, 40)
	r := NewRenderer(screen, parameter.CellAspect, false, sim.Status())
	r.Resize(testWorld, 100, 40)
	rebuilds := sim.Status().Ints.Get("render.rebuilds")

	r.ConsumeFrame(sim)
	if got := rebuilds.Load(); got != 1 {
		t.Fatalf("rebuilds after first frame = %d, want 1", got)
	}

	// Nothing moved, nothing marked
	r.ConsumeFrame(sim)
	r.ConsumeFrame(sim)
	if got := rebuilds.Load(); got != 1 {
		t.Errorf("rebuilds on clean frames = %d, want 1", got)
	}
	if screen.shows != 3 {
		t.Errorf("Show calls = %d, want 3", screen.shows)
	}

	sim.Tracker().Mark()
	r.ConsumeFrame(sim)
	if got := rebuilds.Load(); got != 2 {
		t.Errorf("rebuilds after mark = %d, want 2", got)
	}

	r.Resize(testWorld, 80, 30)
	r.ConsumeFrame(sim)
	if got := rebuilds.Load(); got != 3 {
		t.Errorf("rebuilds after resize = %d, want 3", got)
	}
}

func TestRenderer_DrawsBorderOutlineAndHUD(t *testing.T) {
	sim := newTestSimulation(t)
	screen := newMockScreen(100, 40)
	r := NewRenderer(screen, parameter.CellAspect, true, sim.Status())
	r.Resize(testWorld, 100, 40)

	r.ConsumeFrame(sim)

	if ch, _, _, _ := screen.GetContent(0, parameter.HUDLines); ch != '┌' {
		t.Errorf("border corner = %q, want '┌'", ch)
	}
	if ch, _, _, _ := screen.GetContent(99, 39); ch != '┘' {
		t.Errorf("border corner = %q, want '┘'", ch)
	}
	if screen.count(parameter.ParticleRune) == 0 {
		t.Error("no particle glyphs drawn")
	}
	if screen.count(parameter.PinnedRune) != 1 {
		t.Errorf("pinned glyphs = %d, want 1", screen.count(parameter.PinnedRune))
	}
	if screen.count(parameter.OutlineRune) == 0 {
		t.Error("no outline glyphs drawn")
	}

	hud := screen.row(0)
	for _, want := range []string{"mode:pull", "area_ratio:1.000", "bodies:1"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}
	if !strings.HasPrefix(screen.row(1), HelpText[:10]) {
		t.Errorf("help line = %q", screen.row(1))
	}
}

func TestRenderer_EffectorRing(t *testing.T) {
	sim := newTestSimulation(t)
	screen := newMockScreen(100, 40)
	r := NewRenderer(screen, parameter.CellAspect, false, sim.Status())
	r.Resize(testWorld, 100, 40)

	r.ConsumeFrame(sim)
	if screen.count(parameter.EffectorRune) != 0 {
		t.Fatal("inactive effector drawn")
	}

	eff := sim.Effector()
	eff.Position = r2.Vec{X: 100, Y: 100}
	eff.Radius = 40
	eff.Active = true
	r.ConsumeFrame(sim)
	if screen.count(parameter.EffectorRune) == 0 {
		t.Error("active effector ring not drawn")
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
