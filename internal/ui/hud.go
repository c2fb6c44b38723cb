//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"mad-sand/internal/render"
	"mad-sand/internal/sims/sand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Selector is the slice of the sandbox the HUD reads and drives.
type Selector interface {
	CurrentTile() sand.Tile
	SetCurrentTile(tag string) bool
	TickCount() uint64
}

// HUD renders the tile palette panel to the right of the grid view. Clicking
// a row selects that tile.
type HUD struct {
	sim      Selector
	panel    *ebiten.Image
	pixel    *ebiten.Image
	swatches []swatch
	height   int
	paused   bool
}

// NewHUD constructs a HUD for the provided sandbox.
func NewHUD(sim Selector, height int) *HUD {
	if height < PanelHeight() {
		height = PanelHeight()
	}
	h := &HUD{sim: sim, swatches: layoutSwatches(), height: height}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	return h
}

// Update handles clicks inside the panel. offsetX is the panel's left edge
// in screen space.
func (h *HUD) Update(offsetX int, paused bool) {
	if h == nil {
		return
	}
	h.paused = paused
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	x, y := ebiten.CursorPosition()
	if tile, ok := swatchAt(h.swatches, x-offsetX, y); ok {
		h.sim.SetCurrentTile(tile.Tag())
	}
}

// Draw paints the panel anchored at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil {
		return
	}
	if h.panel == nil {
		h.panel = ebiten.NewImage(PanelWidth, h.height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	label := color.RGBA{R: 200, G: 200, B: 210, A: 255}
	dim := color.RGBA{R: 140, G: 140, B: 150, A: 255}
	y := panelPadding + headerBaseline
	text.Draw(h.panel, fmt.Sprintf("tick %d", h.sim.TickCount()), face, panelPadding, y, label)
	state := "running"
	if h.paused {
		state = "paused"
	}
	text.Draw(h.panel, state, face, panelPadding, y+infoSpacing, dim)

	current := h.sim.CurrentTile()
	for _, s := range h.swatches {
		h.fillRect(s.rect.Min.X, s.rect.Min.Y, s.rect.Dx(), s.rect.Dy(), render.TileColor(s.tile))
		fg := dim
		if s.tile == current {
			fg = label
			h.fillRect(0, s.rect.Min.Y, 3, s.rect.Dy(), label)
		}
		text.Draw(h.panel, fmt.Sprintf("%s %s", s.tile.Tag(), s.tile), face,
			s.rect.Max.X+swatchGap, s.rect.Max.Y-1, fg)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) fillRect(x, y, w, hgt int, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(hgt))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	h.panel.DrawImage(h.pixel, op)
}
