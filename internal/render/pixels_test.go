package render

import (
	"image/color"
	"testing"

	"mad-sand/internal/core"
	"mad-sand/internal/sims/sand"
)

func TestApplyChangesTouchesOnlyChangedCells(t *testing.T) {
	const w, h = 3, 2
	buf := make([]byte, w*h*4)
	changes := []core.Change{
		{X: 2, Y: 1, Value: uint8(sand.Land)},
		{X: 3, Y: 0, Value: uint8(sand.Land)},
		{X: 0, Y: 2, Value: uint8(sand.Land)},
	}
	if n := applyChanges(buf, w, changes, Palette()); n != 1 {
		t.Fatalf("applied %d changes, want 1", n)
	}
	base := (1*w + 2) * 4
	land := TileColor(sand.Land)
	if got := (color.RGBA{R: buf[base], G: buf[base+1], B: buf[base+2], A: buf[base+3]}); got != land {
		t.Fatalf("pixel = %v, want %v", got, land)
	}
	for i := 0; i < base; i++ {
		if buf[i] != 0 {
			t.Fatalf("byte %d modified by unrelated change", i)
		}
	}
}

func TestPaletteCoversEveryTile(t *testing.T) {
	p := Palette()
	if len(p) != sand.NumTiles {
		t.Fatalf("palette has %d entries, want %d", len(p), sand.NumTiles)
	}
	seen := map[color.RGBA]sand.Tile{}
	for i, c := range p {
		if c.A != 255 {
			t.Fatalf("tile %v has transparent color", sand.Tile(i))
		}
		if prev, dup := seen[c]; dup {
			t.Fatalf("tiles %v and %v share a color", prev, sand.Tile(i))
		}
		seen[c] = sand.Tile(i)
	}
}
