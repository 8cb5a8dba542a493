package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Viewport maps a world rectangle (+Y up) onto a cell rectangle (+row down)
// The world is letterboxed so one world unit spans the same visual distance on
// both axes given the cell height/width ratio
type Viewport struct {
	World         r2.Box
	X, Y          int
	Width, Height int
	CellAspect    float64

	scale   float64 // columns per world unit
	offsetX float64 // letterbox columns
	offsetY float64 // letterbox rows
}

// NewViewport fits world into the cell rect at (x, y) of size w×h
func NewViewport(world r2.Box, x, y, w, h int, cellAspect float64) Viewport {
	v := Viewport{World: world, X: x, Y: y, Width: max(w, 0), Height: max(h, 0), CellAspect: cellAspect}

	ww := world.Max.X - world.Min.X
	wh := world.Max.Y - world.Min.Y
	if ww <= 0 || wh <= 0 || v.Width == 0 || v.Height == 0 || cellAspect <= 0 {
		return v
	}

	v.scale = math.Min(float64(v.Width)/ww, float64(v.Height)*cellAspect/wh)
	v.offsetX = (float64(v.Width) - ww*v.scale) / 2
	v.offsetY = (float64(v.Height) - wh*v.scale/cellAspect) / 2
	return v
}

// Empty reports whether nothing can be drawn
func (v Viewport) Empty() bool {
	return v.scale == 0
}

// ToCell returns the cell containing world point p
func (v Viewport) ToCell(p r2.Vec) (int, int) {
	col := v.offsetX + (p.X-v.World.Min.X)*v.scale
	row := v.offsetY + (v.World.Max.Y-p.Y)*v.scale/v.CellAspect
	return v.X + int(math.Floor(col)), v.Y + int(math.Floor(row))
}

// ToWorld returns the world point at the center of a cell
func (v Viewport) ToWorld(col, row int) r2.Vec {
	if v.scale == 0 {
		return r2.Vec{}
	}
	cx := float64(col-v.X) + 0.5 - v.offsetX
	cy := float64(row-v.Y) + 0.5 - v.offsetY
	return r2.Vec{
		X: v.World.Min.X + cx/v.scale,
		Y: v.World.Max.Y - cy*v.CellAspect/v.scale,
	}
}

// Contains reports whether a cell lies inside the viewport rect
func (v Viewport) Contains(col, row int) bool {
	return col >= v.X && col < v.X+v.Width && row >= v.Y && row < v.Y+v.Height
}

// Scale returns columns per world unit
func (v Viewport) Scale() float64 {
	return v.scale
}
