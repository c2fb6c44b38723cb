package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Dimensions returns the grid width and height.
func (g *ByteGrid) Dimensions() (int, int) { return g.W, g.H }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *ByteGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Get returns the value at (x, y). The second result is false when the
// coordinates fall outside the grid.
func (g *ByteGrid) Get(x, y int) (uint8, bool) {
	if !g.InBounds(x, y) {
		return 0, false
	}
	return g.data[y*g.W+x], true
}

// Set overwrites the value at (x, y) and reports whether the write happened.
func (g *ByteGrid) Set(x, y int, v uint8) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.data[y*g.W+x] = v
	return true
}

// Fill sets every cell to v.
func (g *ByteGrid) Fill(v uint8) {
	for i := range g.data {
		g.data[i] = v
	}
}


// BitGrid is a per-cell flag mask with the same addressing as ByteGrid.
type BitGrid struct {
	W, H  int
	words []uint64
}

// NewBitGrid allocates a cleared mask of w*h bits.
func NewBitGrid(w, h int) *BitGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &BitGrid{W: w, H: h, words: make([]uint64, (w*h+63)/64)}
}

// Mark sets the bit for (x, y). Out-of-range coordinates are ignored.
func (b *BitGrid) Mark(x, y int) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	i := y*b.W + x
	b.words[i>>6] |= 1 << (uint(i) & 63)
}

// Marked reports whether (x, y) is set. Out-of-range coordinates read as unset.
func (b *BitGrid) Marked(x, y int) bool {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return false
	}
	i := y*b.W + x
	return b.words[i>>6]&(1<<(uint(i)&63)) != 0
}

// Reset clears every bit.
func (b *BitGrid) Reset() {
	for i := range b.words {
		b.words[i] = 0
	}
}
