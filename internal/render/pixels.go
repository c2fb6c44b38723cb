package render

import (
	"image/color"

	"mad-sand/internal/core"
)

// applyChanges writes only the changed cells of a w-wide grid into buf.
// Records outside the buffer are skipped.
func applyChanges(buf []byte, w int, changes []core.Change, palette []color.RGBA) int {
	if w <= 0 || len(palette) == 0 {
		return 0
	}
	h := len(buf) / 4 / w
	written := 0
	for _, c := range changes {
		if c.X < 0 || c.X >= w || c.Y < 0 || c.Y >= h {
			continue
		}
		writePixel(buf, (c.Y*w+c.X)*4, paletteColor(palette, c.Value))
		written++
	}
	return written
}

func paletteColor(palette []color.RGBA, v uint8) color.RGBA {
	idx := int(v)
	if idx >= len(palette) {
		idx = 0
	}
	return palette[idx]
}

func writePixel(buf []byte, base int, col color.RGBA) {
	buf[base+0] = col.R
	buf[base+1] = col.G
	buf[base+2] = col.B
	buf[base+3] = col.A
}
