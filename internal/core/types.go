package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Contains reports whether (x, y) lies inside [0, W) x [0, H).
func (s Size) Contains(x, y int) bool {
	return x >= 0 && x < s.W && y >= 0 && y < s.H
}

// Change is a single redraw instruction: cell (X, Y) now holds Value.
// Later entries addressing the same cell override earlier ones.
type Change struct {
	X     int
	Y     int
	Value uint8
}

// GridSize converts a surface measured in pixels into grid dimensions using
// integer division by the cell size.
func GridSize(surfaceW, surfaceH, cell int) Size {
	if cell <= 0 {
		cell = 1
	}
	return Size{W: surfaceW / cell, H: surfaceH / cell}
}

// CellAt translates an absolute pixel position into a grid coordinate.
func CellAt(px, py, cell int) (int, int) {
	if cell <= 0 {
		cell = 1
	}
	x, y := px/cell, py/cell
	// Integer division truncates toward zero; keep negative pixels outside the grid.
	if px < 0 {
		x = -1
	}
	if py < 0 {
		y = -1
	}
	return x, y
}

// Sim is the contract drivers use to advance, paint and redraw a tile
// automaton. Every method runs to completion before returning; callers that
// share a Sim across goroutines must serialize calls themselves.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Tick() []Change
	Snapshot() []Change
	Clear() []Change
	SetCurrentTile(tag string) bool
	PaintAt(x, y int) (Change, bool)
}
