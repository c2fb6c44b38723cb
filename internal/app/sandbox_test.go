package app

import (
	"testing"

	"mad-sand/internal/core"
	"mad-sand/internal/sims/sand"
)

var _ Sandbox = (*sand.Engine)(nil)

func TestFrameKeepsOrderAndEmpties(t *testing.T) {
	var f Frame
	f.Add(core.Change{X: 1, Y: 1, Value: 1})
	f.Add(core.Change{X: 1, Y: 1, Value: 2}, core.Change{X: 0, Y: 0, Value: 3})
	got := f.Take()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Value != 1 || got[1].Value != 2 || got[2].Value != 3 {
		t.Fatalf("order not preserved: %v", got)
	}
	if rest := f.Take(); len(rest) != 0 {
		t.Fatalf("Take should empty the frame, got %v", rest)
	}
}

func TestFrameReplayMatchesEngine(t *testing.T) {
	cfg := NewConfig()
	cfg.Width, cfg.Height = 16, 12
	e := sand.NewWithConfig(cfg.SandConfig())

	// A surface that only ever sees frame output must track the grid exactly.
	surface := make([]uint8, 16*12)
	var f Frame
	f.Add(e.Snapshot()...)
	e.SetCurrentTile("w")
	for i := 0; i < 30; i++ {
		if c, ok := e.PaintAt(i%16, 0); ok {
			f.Add(c)
		}
		if i == 20 {
			f.Add(e.Clear()...)
		}
		f.Add(e.Tick()...)
		for _, c := range f.Take() {
			surface[c.Y*16+c.X] = c.Value
		}
	}
	for i, tile := range e.Tiles() {
		if surface[i] != uint8(tile) {
			t.Fatalf("surface cell %d = %d, grid = %v", i, surface[i], tile)
		}
	}
}
