package sand

import "mad-sand/internal/core"

// Tick runs one full pass over the grid and returns the cells it changed.
//
// Columns are scanned left to right and rows top to bottom within a column.
// A cell that took part in a swap is marked as moved for the rest of the pass
// and matches no rule, so nothing moves twice per tick. The mask is separate
// from the grid, which therefore only ever holds real tile values.
func (e *Engine) Tick() []core.Change {
	e.moved.Reset()
	out := make([]core.Change, 0, e.lastLen)

	for x := 0; x < e.w; x++ {
		for y := 0; y < e.h-1; y++ {
			tile, tileFree := e.look(x, y)
			below, belowFree := e.look(x, y+1)

			if tileFree && belowFree && falls(tile, below) {
				out = e.swap(out, x, y, x, y+1, tile, below)
				// Both cells are now resolved for this tick.
				tileFree = false
			}

			if x == 0 {
				continue
			}
			before, beforeFree := e.look(x-1, y)
			belowBefore, belowBeforeFree := e.look(x-1, y+1)
			heads := e.coin()
			if !tileFree || !beforeFree {
				continue
			}
			// A moved cell is never Air, so it counts as support below.
			supported := !belowFree || below != Air
			supportedBefore := !belowBeforeFree || belowBefore != Air

			switch {
			case heads && tile == Water && before == Air && supported:
				out = e.swap(out, x, y, x-1, y, tile, before)
			case !heads && tile == Air && before == Water && supportedBefore:
				out = e.swap(out, x, y, x-1, y, tile, before)
			}
		}
	}

	e.ticks++
	e.lastLen = len(out)
	return out
}

// falls reports whether tile sinks into the cell below it.
func falls(tile, below Tile) bool {
	switch tile {
	case Land:
		return below == Air || below == Water
	case Water:
		return below == Air
	}
	return false
}

// look returns the tile at (x, y) and whether it is still free to move this
// tick. Callers guard coordinates before looking.
func (e *Engine) look(x, y int) (Tile, bool) {
	v, _ := e.grid.Get(x, y)
	return Tile(v), !e.moved.Marked(x, y)
}

// swap exchanges two cells, marks both as moved and records their new values.
func (e *Engine) swap(out []core.Change, ax, ay, bx, by int, a, b Tile) []core.Change {
	e.grid.Set(ax, ay, uint8(b))
	e.grid.Set(bx, by, uint8(a))
	e.moved.Mark(ax, ay)
	e.moved.Mark(bx, by)
	return append(out,
		core.Change{X: ax, Y: ay, Value: uint8(b)},
		core.Change{X: bx, Y: by, Value: uint8(a)},
	)
}
