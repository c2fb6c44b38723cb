package sand

import "mad-sand/internal/core"

// Engine owns a tile grid and advances it with the falling-solid and
// flowing-liquid swap rules.
type Engine struct {
	cfg Config

	w, h  int
	grid  *core.ByteGrid
	moved *core.BitGrid

	rng  *core.RNG
	coin func() bool

	current Tile
	ticks   uint64
	lastLen int
}

// New returns an engine with the provided dimensions using defaults.
func New(w, h int) *Engine {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig allocates the grid and seeds it with cfg.Fill.
func NewWithConfig(cfg Config) *Engine {
	grid := core.NewByteGrid(cfg.Width, cfg.Height)
	w, h := grid.Dimensions()
	cfg.Width, cfg.Height = w, h
	if _, ok := seeders[cfg.Fill]; !ok {
		cfg.Fill = "empty"
	}
	e := &Engine{
		cfg:     cfg,
		w:       w,
		h:       h,
		grid:    grid,
		moved:   core.NewBitGrid(w, h),
		rng:     core.NewRNG(cfg.Seed),
		current: Land,
	}
	e.coin = e.rng.Bool
	e.Reset(cfg.Seed)
	return e
}

// NewFromColumns builds an engine from caller-supplied tiles given column by
// column: cols[x][y]. Every column must have the same length. Values outside
// the tile set are stored as Air.
func NewFromColumns(cols [][]Tile) *Engine {
	cfg := DefaultConfig()
	cfg.Fill = "empty"
	cfg.Width = len(cols)
	cfg.Height = 0
	if len(cols) > 0 {
		cfg.Height = len(cols[0])
	}
	e := NewWithConfig(cfg)
	for x, col := range cols {
		for y, t := range col {
			if !t.Valid() {
				t = Air
			}
			e.grid.Set(x, y, uint8(t))
		}
	}
	return e
}

// Name returns the simulation identifier.
func (e *Engine) Name() string { return "sand" }

// Size reports the grid dimensions.
func (e *Engine) Size() core.Size { return core.Size{W: e.w, H: e.h} }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// TickCount returns the number of ticks run since the last reset.
func (e *Engine) TickCount() uint64 { return e.ticks }

// Reset clears the grid and refills it with the configured seeder. A zero
// seed reuses the config seed.
func (e *Engine) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = e.cfg.Seed
	}
	e.rng.Reseed(effective)
	e.grid.Fill(uint8(Air))
	e.moved.Reset()
	seeders[e.cfg.Fill](e.grid, e.rng, e.cfg.Params)
	e.ticks = 0
	e.lastLen = 0
}

// At returns the tile at (x, y). The second result is false outside the grid.
func (e *Engine) At(x, y int) (Tile, bool) {
	v, ok := e.grid.Get(x, y)
	return Tile(v), ok
}

// Set overwrites a single cell. Out-of-range coordinates and values outside
// the tile set are ignored.
func (e *Engine) Set(x, y int, t Tile) bool {
	if !t.Valid() {
		return false
	}
	return e.grid.Set(x, y, uint8(t))
}

// Tiles returns a row-major copy of the grid.
func (e *Engine) Tiles() []Tile {
	cells := e.grid.Cells()
	out := make([]Tile, len(cells))
	for i, v := range cells {
		out[i] = Tile(v)
	}
	return out
}

// Counts returns how many cells hold each tile value.
func (e *Engine) Counts() [NumTiles]int {
	var counts [NumTiles]int
	for _, v := range e.grid.Cells() {
		counts[v]++
	}
	return counts
}

// Snapshot enumerates every cell, column by column, for a full redraw.
func (e *Engine) Snapshot() []core.Change {
	out := make([]core.Change, 0, e.w*e.h)
	for x := 0; x < e.w; x++ {
		for y := 0; y < e.h; y++ {
			v, _ := e.grid.Get(x, y)
			out = append(out, core.Change{X: x, Y: y, Value: v})
		}
	}
	return out
}

// Clear resets every cell to Air and returns one record per cell.
func (e *Engine) Clear() []core.Change {
	e.grid.Fill(uint8(Air))
	return e.Snapshot()
}
