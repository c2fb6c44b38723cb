package core

import "testing"

func TestByteGridBounds(t *testing.T) {
	g := NewByteGrid(3, 2)
	if w, h := g.Dimensions(); w != 3 || h != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", w, h)
	}
	if !g.Set(2, 1, 7) {
		t.Fatal("expected in-bounds set to succeed")
	}
	if v, ok := g.Get(2, 1); !ok || v != 7 {
		t.Fatalf("Get(2,1) = %d,%v want 7,true", v, ok)
	}
	for _, p := range [][2]int{{-1, 0}, {3, 0}, {0, 2}, {0, -1}} {
		if g.Set(p[0], p[1], 1) {
			t.Fatalf("Set(%d,%d) should be rejected", p[0], p[1])
		}
		if _, ok := g.Get(p[0], p[1]); ok {
			t.Fatalf("Get(%d,%d) should report out of bounds", p[0], p[1])
		}
	}
	if g.Cells()[g.Index(2, 1)] != 7 {
		t.Fatal("Index does not address the written cell")
	}
}

func TestByteGridFill(t *testing.T) {
	g := NewByteGrid(4, 4)
	g.Fill(3)
	for i, v := range g.Cells() {
		if v != 3 {
			t.Fatalf("cell %d = %d after Fill(3)", i, v)
		}
	}
	g.Fill(0)
	for i, v := range g.Cells() {
		if v != 0 {
			t.Fatalf("cell %d = %d after Fill(0)", i, v)
		}
	}
}

func TestNewByteGridClampsDimensions(t *testing.T) {
	g := NewByteGrid(0, -5)
	if g.W != 1 || g.H != 1 || len(g.Cells()) != 1 {
		t.Fatalf("expected 1x1 grid, got %dx%d (%d cells)", g.W, g.H, len(g.Cells()))
	}
}

func TestBitGridMarkAndReset(t *testing.T) {
	b := NewBitGrid(70, 3)
	if n := countMarked(b, 70, 3); n != 0 {
		t.Fatalf("fresh mask has %d marked cells", n)
	}
	b.Mark(69, 2)
	b.Mark(0, 1)
	b.Mark(-1, 0)
	b.Mark(70, 0)
	if !b.Marked(69, 2) || !b.Marked(0, 1) {
		t.Fatal("marked cells should read back as set")
	}
	if b.Marked(1, 1) || b.Marked(70, 0) {
		t.Fatal("unmarked or out-of-range cells should read as unset")
	}
	if n := countMarked(b, 70, 3); n != 2 {
		t.Fatalf("marked = %d, want 2", n)
	}
	b.Reset()
	if n := countMarked(b, 70, 3); n != 0 {
		t.Fatalf("Reset left %d marked cells", n)
	}
}

func countMarked(b *BitGrid, w, h int) int {
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if b.Marked(x, y) {
				n++
			}
		}
	}
	return n
}

func TestCellAtAndGridSize(t *testing.T) {
	if got := GridSize(800, 600, 4); got != (Size{W: 200, H: 150}) {
		t.Fatalf("GridSize = %+v", got)
	}
	if x, y := CellAt(9, 3, 4); x != 2 || y != 0 {
		t.Fatalf("CellAt(9,3) = %d,%d want 2,0", x, y)
	}
	if x, _ := CellAt(-2, 3, 4); x != -1 {
		t.Fatalf("negative pixel should map outside the grid, got x=%d", x)
	}
	s := Size{W: 2, H: 2}
	if s.Contains(2, 0) || !s.Contains(1, 1) {
		t.Fatal("Size.Contains bounds are wrong")
	}
}
