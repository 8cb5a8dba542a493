package render

import (
	"math"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/parameter"
	"github.com/lixenwraith/softbody/status"
	"gonum.org/v1/gonum/spatial/r2"
)

// HelpText is drawn on the second HUD line
const HelpText = "LMB pull  RMB push  MMB displace  1/2/3 mode  space pause  r reset  q quit"

// hudKeys are the registry metrics shown on the first HUD line, in order
var hudKeys = []string{
	"effector.mode",
	"body.area_ratio",
	"physics.frame_substeps",
	"physics.overload_frames",
	"physics.bodies",
}

// Renderer draws the simulation onto a tcell screen once per frame
// Implements engine.FrameConsumer
type Renderer struct {
	screen     tcell.Screen
	cellAspect float64
	showHUD    bool

	viewport    Viewport
	outline     Outline
	needRebuild bool

	// HUD scratch, reused across frames
	hud strings.Builder

	statRebuilds *atomic.Int64
}

// NewRenderer creates a renderer for screen; call Resize before the first frame
func NewRenderer(screen tcell.Screen, cellAspect float64, showHUD bool, reg *status.Registry) *Renderer {
	return &Renderer{
		screen:       screen,
		cellAspect:   cellAspect,
		showHUD:      showHUD,
		needRebuild:  true,
		statRebuilds: reg.Ints.Get("render.rebuilds"),
	}
}

// Resize recomputes the viewport for a w×h screen and world box
func (r *Renderer) Resize(world r2.Box, w, h int) {
	top := 0
	if r.showHUD {
		top = parameter.HUDLines
	}
	// One cell of border on each side
	r.viewport = NewViewport(world, 1, top+1, w-2, h-top-2, r.cellAspect)
	r.needRebuild = true
}

// Viewport returns the current world-to-cell mapping
func (r *Renderer) Viewport() Viewport {
	return r.viewport
}

// ConsumeFrame rebuilds the outline if the simulation marked it dirty, then draws
func (r *Renderer) ConsumeFrame(sim *engine.Simulation) {
	// Consume every frame so the flag never carries a stale mark into the next one
	dirty := sim.Tracker().Consume()
	if dirty || r.needRebuild {
		r.outline.Rebuild(r.viewport, sim.Store(), sim.Bodies())
		r.needRebuild = false
		r.statRebuilds.Add(1)
	}
	r.Draw(sim)
}

// Draw paints border, outline, effector and HUD, then shows the screen
func (r *Renderer) Draw(sim *engine.Simulation) {
	bg := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', bg)

	r.drawBorder(bg.Foreground(RgbBorder))

	for _, g := range r.outline.Glyphs() {
		style := bg.Foreground(bodyColor(g.Body))
		if g.Kind == GlyphPinned {
			style = bg.Foreground(RgbPinned)
		}
		r.screen.SetContent(g.Col, g.Row, g.Rune, nil, style)
	}

	if eff := sim.Effector(); eff.Active {
		r.drawRing(eff.Position, eff.Radius, bg.Foreground(RgbEffector))
	}

	if r.showHUD {
		r.drawHUD(sim, bg)
	}

	r.screen.Show()
}

func (r *Renderer) drawBorder(style tcell.Style) {
	v := r.viewport
	if v.Width <= 0 || v.Height <= 0 {
		return
	}
	left, right := v.X-1, v.X+v.Width
	top, bottom := v.Y-1, v.Y+v.Height
	for x := left + 1; x < right; x++ {
		r.screen.SetContent(x, top, '─', nil, style)
		r.screen.SetContent(x, bottom, '─', nil, style)
	}
	for y := top + 1; y < bottom; y++ {
		r.screen.SetContent(left, y, '│', nil, style)
		r.screen.SetContent(right, y, '│', nil, style)
	}
	r.screen.SetContent(left, top, '┌', nil, style)
	r.screen.SetContent(right, top, '┐', nil, style)
	r.screen.SetContent(left, bottom, '└', nil, style)
	r.screen.SetContent(right, bottom, '┘', nil, style)
}

// drawRing samples the effector circle densely enough for one glyph per cell of circumference
func (r *Renderer) drawRing(center r2.Vec, radius float64, style tcell.Style) {
	v := r.viewport
	if v.Empty() || radius <= 0 {
		return
	}
	steps := int(2*math.Pi*radius*v.Scale()) + 8
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		p := r2.Vec{X: center.X + radius*math.Cos(theta), Y: center.Y + radius*math.Sin(theta)}
		col, row := v.ToCell(p)
		if !v.Contains(col, row) {
			continue
		}
		// Outline glyphs stay visible under the ring
		if cur, _, _, _ := r.screen.GetContent(col, row); cur != ' ' {
			continue
		}
		r.screen.SetContent(col, row, parameter.EffectorRune, nil, style)
	}
}

func (r *Renderer) drawHUD(sim *engine.Simulation, bg tcell.Style) {
	reg := sim.Status()
	entries := reg.Entries()
	r.hud.Reset()
	for i, key := range hudKeys {
		if i > 0 {
			r.hud.WriteString("  ")
		}
		r.hud.WriteString(shortKey(key))
		r.hud.WriteByte(':')
		r.hud.WriteString(lookup(entries, key))
	}

	style := bg.Foreground(RgbStatusText)
	col := 0
	if reg.Bools.Get("engine.paused").Load() {
		col = r.drawText(0, 0, " PAUSED ", bg.Foreground(RgbBackground).Background(RgbPausedBg)) + 1
	}
	r.drawText(col, 0, r.hud.String(), style)
	r.drawText(0, 1, HelpText, bg.Foreground(RgbStatusDim))
}

// drawText writes s from (x, y) clipped to screen width, returns the column after it
func (r *Renderer) drawText(x, y int, s string, style tcell.Style) int {
	w, _ := r.screen.Size()
	for _, ch := range s {
		if x >= w {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

func shortKey(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		return key[i+1:]
	}
	return key
}

func lookup(entries []status.Entry, key string) string {
	for _, e := range entries {
		if e.Key == key {
			return e.Value
		}
	}
	return "-"
}
