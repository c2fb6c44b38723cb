package sand

import "mad-sand/internal/core"

// SetCurrentTile selects the tile painted by subsequent PaintAt calls.
// Unknown tags leave the selection unchanged and report false.
func (e *Engine) SetCurrentTile(tag string) bool {
	t, ok := TileForTag(tag)
	if !ok {
		return false
	}
	e.current = t
	return true
}

// CurrentTile returns the tile PaintAt writes.
func (e *Engine) CurrentTile() Tile { return e.current }

// PaintAt writes the selected tile at (x, y). Coordinates outside the grid
// are ignored and yield no record.
func (e *Engine) PaintAt(x, y int) (core.Change, bool) {
	if !e.grid.Set(x, y, uint8(e.current)) {
		return core.Change{}, false
	}
	return core.Change{X: x, Y: y, Value: uint8(e.current)}, true
}

// PaintArea paints the square of the given radius centered on (x, y),
// skipping cells outside the grid. Radius 0 behaves like PaintAt.
func (e *Engine) PaintArea(x, y, radius int) []core.Change {
	if radius < 0 {
		radius = 0
	}
	var out []core.Change
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			if c, ok := e.PaintAt(x+dx, y+dy); ok {
				out = append(out, c)
			}
		}
	}
	return out
}
