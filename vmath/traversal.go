package vmath

// LineTraverser is a zero-allocation iterator over the cells of an integer
// Bresenham line, both endpoints included
// Consecutive cells are 8-connected
type LineTraverser struct {
	x, y   int
	x1, y1 int
	dx, dy int
	sx, sy int
	err    int

	started bool
	done    bool
}

// NewLineTraverser creates an iterator from (x0, y0) to (x1, y1)
func NewLineTraverser(x0, y0, x1, y1 int) LineTraverser {
	t := LineTraverser{
		x: x0, y: y0,
		x1: x1, y1: y1,
		dx: absInt(x1 - x0),
		dy: -absInt(y1 - y0),
		sx: 1, sy: 1,
	}
	if x0 > x1 {
		t.sx = -1
	}
	if y0 > y1 {
		t.sy = -1
	}
	t.err = t.dx + t.dy
	return t
}

// Next advances to the next cell
// Returns true if a valid cell is available via Pos()
func (t *LineTraverser) Next() bool {
	if t.done {
		return false
	}
	if !t.started {
		t.started = true
		return true
	}
	if t.x == t.x1 && t.y == t.y1 {
		t.done = true
		return false
	}

	e2 := 2 * t.err
	if e2 >= t.dy {
		t.err += t.dy
		t.x += t.sx
	}
	if e2 <= t.dx {
		t.err += t.dx
		t.y += t.sy
	}
	return true
}

// Pos returns the current cell
func (t *LineTraverser) Pos() (int, int) {
	return t.x, t.y
}

// Cells returns the total number of cells the line visits
func (t *LineTraverser) Cells() int {
	return max(t.dx, -t.dy) + 1
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
