package app

import (
	"mad-sand/internal/core"
	"mad-sand/internal/sims/sand"
)

// Sandbox is the engine surface the front-ends drive.
type Sandbox interface {
	core.Sim
	PaintArea(x, y, radius int) []core.Change
	CurrentTile() sand.Tile
	TickCount() uint64
}

// Frame collects the changes produced between two redraws: paint, clear
// and tick output, in the order they happened.
type Frame struct {
	changes []core.Change
}

// Add appends records to the frame.
func (f *Frame) Add(changes ...core.Change) { f.changes = append(f.changes, changes...) }

// Take returns the pending records and empties the frame. The returned slice
// is only valid until the next Add.
func (f *Frame) Take() []core.Change {
	out := f.changes
	f.changes = f.changes[:0]
	return out
}
