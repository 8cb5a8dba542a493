package render

import (
	"github.com/lixenwraith/softbody/parameter"
	"github.com/lixenwraith/softbody/physics"
	"github.com/lixenwraith/softbody/vmath"
)

// GlyphKind tells the renderer how to style a glyph
type GlyphKind uint8

const (
	GlyphEdge GlyphKind = iota
	GlyphParticle
	GlyphPinned
)

// Glyph is one rasterized outline cell
type Glyph struct {
	Col, Row int
	Rune     rune
	Kind     GlyphKind
	Body     int
}

// Outline is the cached rasterization of every body loop
// Rebuilt only when the dirty flag is consumed; the glyph buffer is reused
type Outline struct {
	glyphs []Glyph
}

// Glyphs returns the current glyphs, edges before particles
func (o *Outline) Glyphs() []Glyph {
	return o.glyphs
}

// Rebuild rasterizes every body: Bresenham edges, then particle markers on top
func (o *Outline) Rebuild(v Viewport, store *physics.Store, bodies []*physics.SoftBody) {
	o.glyphs = o.glyphs[:0]
	if v.Empty() {
		return
	}

	for bi, b := range bodies {
		loop := b.Loop()
		n := len(loop)
		for i := 0; i < n; i++ {
			c0, r0 := v.ToCell(store.At(loop[i]).Position)
			c1, r1 := v.ToCell(store.At(loop[(i+1)%n]).Position)
			o.line(v, c0, r0, c1, r1, bi)
		}
	}

	for bi, b := range bodies {
		for _, idx := range b.Loop() {
			p := store.At(idx)
			col, row := v.ToCell(p.Position)
			if !v.Contains(col, row) {
				continue
			}
			g := Glyph{Col: col, Row: row, Rune: parameter.ParticleRune, Kind: GlyphParticle, Body: bi}
			if p.Pinned() {
				g.Rune, g.Kind = parameter.PinnedRune, GlyphPinned
			}
			o.glyphs = append(o.glyphs, g)
		}
	}
}

// line appends edge glyphs from (c0,r0) to (c1,r1), clipped to v
func (o *Outline) line(v Viewport, c0, r0, c1, r1, body int) {
	t := vmath.NewLineTraverser(c0, r0, c1, r1)
	// Runaway geometry far off screen would cost a walk per cell
	if t.Cells() > 4*(v.Width+v.Height) {
		return
	}
	for t.Next() {
		col, row := t.Pos()
		if v.Contains(col, row) {
			o.glyphs = append(o.glyphs, Glyph{Col: col, Row: row, Rune: parameter.OutlineRune, Kind: GlyphEdge, Body: body})
		}
	}
}
