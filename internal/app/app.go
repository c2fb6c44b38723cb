//go:build ebiten

package app

import (
	"time"

	"mad-sand/internal/core"
	"mad-sand/internal/render"
	"mad-sand/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a sandbox engine to the ebiten.Game interface.
type Game struct {
	sim     Sandbox
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	frame   Frame

	scale    int
	brush    int
	paused   bool
	tickOnce bool
	seeded   bool
	seed     int64
}

// New constructs a Game for the provided sandbox.
func New(sim Sandbox, scale, brush int, seed int64) *Game {
	size := sim.Size()
	if scale <= 0 {
		scale = 1
	}
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(sim, size.H*scale),
		overlay: ui.NewOverlay(scale),
		scale:   scale,
		brush:   brush,
		seed:    seed,
	}
}

// Reset reinitializes the sandbox with the provided seed and queues a full redraw.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.frame.Add(g.sim.Snapshot()...)
	g.tickOnce = false
}

// Update handles per-frame input and advances the sandbox.
func (g *Game) Update() error {
	if !g.seeded {
		g.frame.Add(g.sim.Snapshot()...)
		g.seeded = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.frame.Add(g.sim.Clear()...)
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		g.sim.SetCurrentTile(string(r))
	}

	size := g.sim.Size()
	g.hud.Update(size.W*g.scale, g.paused)
	g.overlay.Update()

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		px, py := ebiten.CursorPosition()
		if px < size.W*g.scale {
			x, y := core.CellAt(px, py, g.scale)
			g.frame.Add(g.sim.PaintArea(x, y, g.brush)...)
		}
	}

	if !g.paused || g.tickOnce {
		g.frame.Add(g.sim.Tick()...)
		g.tickOnce = false
	}

	changes := g.frame.Take()
	g.painter.Apply(changes)
	g.overlay.Record(changes)
	return nil
}

// Draw renders the grid, overlay and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale)
}

// Layout returns the logical screen size: the grid plus the HUD panel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	h := s.H * g.scale
	if h < ui.PanelHeight() {
		h = ui.PanelHeight()
	}
	return s.W*g.scale + ui.PanelWidth, h
}
