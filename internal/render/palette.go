package render

import (
	"image/color"

	"mad-sand/internal/sims/sand"
)

var tilePalette = buildTilePalette()

// Palette returns the color used for every tile value, indexed by tile.
func Palette() []color.RGBA { return tilePalette }

// TileColor returns the color for a single tile, falling back to the Air
// color for values outside the tile set.
func TileColor(t sand.Tile) color.RGBA {
	if !t.Valid() {
		return tilePalette[sand.Air]
	}
	return tilePalette[t]
}

func buildTilePalette() []color.RGBA {
	p := make([]color.RGBA, sand.NumTiles)
	p[sand.Air] = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	p[sand.Land] = color.RGBA{R: 194, G: 160, B: 96, A: 255}
	p[sand.Water] = color.RGBA{R: 48, G: 110, B: 220, A: 255}
	p[sand.Static] = color.RGBA{R: 128, G: 128, B: 128, A: 255}

	colors := [...]color.RGBA{
		{R: 255, G: 255, B: 255, A: 255},
		{R: 230, G: 57, B: 70, A: 255},
		{R: 244, G: 162, B: 97, A: 255},
		{R: 233, G: 196, B: 106, A: 255},
		{R: 138, G: 201, B: 38, A: 255},
		{R: 42, G: 157, B: 143, A: 255},
		{R: 25, G: 130, B: 196, A: 255},
		{R: 106, G: 76, B: 147, A: 255},
		{R: 255, G: 112, B: 166, A: 255},
		{R: 93, G: 64, B: 55, A: 255},
		{R: 60, G: 60, B: 60, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
	}
	for i, c := range colors {
		p[int(sand.Color0)+i] = c
	}
	return p
}
