package ui

import (
	"image"

	"mad-sand/internal/sims/sand"
)

const (
	// PanelWidth is the HUD width in pixels, to the right of the grid view.
	PanelWidth = 120

	panelPadding   = 8
	headerBaseline = 12
	infoSpacing    = 16
	swatchSize     = 12
	swatchGap      = 4
	swatchTop      = panelPadding + headerBaseline + 2*infoSpacing
)

// swatch is one selectable tile entry in the HUD panel.
type swatch struct {
	tile sand.Tile
	rect image.Rectangle
}

// layoutSwatches stacks one swatch per tile, in tile order, in panel space.
func layoutSwatches() []swatch {
	out := make([]swatch, sand.NumTiles)
	for i := range out {
		top := swatchTop + i*(swatchSize+swatchGap)
		out[i] = swatch{
			tile: sand.Tile(i),
			rect: image.Rect(panelPadding, top, panelPadding+swatchSize, top+swatchSize),
		}
	}
	return out
}

// PanelHeight returns the minimum panel height that fits every swatch.
func PanelHeight() int {
	return swatchTop + sand.NumTiles*(swatchSize+swatchGap) + panelPadding
}

// swatchAt returns the tile whose swatch row contains the panel-space point.
// The whole row, label included, is clickable.
func swatchAt(swatches []swatch, x, y int) (sand.Tile, bool) {
	for _, s := range swatches {
		row := image.Rect(0, s.rect.Min.Y, PanelWidth, s.rect.Max.Y)
		if image.Pt(x, y).In(row) {
			return s.tile, true
		}
	}
	return sand.Air, false
}
