//go:build ebiten

package render

import (
	"mad-sand/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter keeps one pixel per grid cell and uploads only after changes.
type GridPainter struct {
	w, h  int
	img   *ebiten.Image
	buf   []byte
	dirty bool
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Apply updates the changed cells only.
func (gp *GridPainter) Apply(changes []core.Change) {
	if applyChanges(gp.buf, gp.w, changes, Palette()) > 0 {
		gp.dirty = true
	}
}

// Blit uploads pending pixels and draws the grid scaled by cell size.
func (gp *GridPainter) Blit(dst *ebiten.Image, scale int) {
	if gp.dirty {
		gp.img.WritePixels(gp.buf)
		gp.dirty = false
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}
