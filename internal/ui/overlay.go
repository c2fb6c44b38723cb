//go:build ebiten

package ui

import (
	"image/color"

	"mad-sand/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay highlights the cells changed during the most recent frame.
type Overlay struct {
	scale   int
	show    bool
	pixel   *ebiten.Image
	changes []core.Change
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(scale int) *Overlay {
	o := &Overlay{scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the overlay with the O key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		o.show = !o.show
	}
}

// Record keeps the latest frame's changes for drawing.
func (o *Overlay) Record(changes []core.Change) {
	o.changes = append(o.changes[:0], changes...)
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.show || len(o.changes) == 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	tint := color.RGBA{R: 255, G: 60, B: 60, A: 90}
	for _, c := range o.changes {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(scale), float64(scale))
		op.GeoM.Translate(float64(c.X*scale), float64(c.Y*scale))
		op.ColorScale.ScaleWithColor(tint)
		screen.DrawImage(o.pixel, op)
	}
}
