// Package render turns Wireworld display values into pixels.
package render

import (
	"image/color"

	"wireworld/internal/sims/wireworld"
)

// Palette returns the colors indexed by wireworld display value. Fixed cells
// are drawn in a darker shade of their kind.
func Palette() []color.RGBA {
	base := [4]color.RGBA{
		wireworld.KindEmpty:    {R: 50, G: 205, B: 50, A: 255},
		wireworld.KindWire:     {R: 20, G: 20, B: 20, A: 255},
		wireworld.KindElectron: {R: 255, G: 230, B: 0, A: 255},
		wireworld.KindTail:     {R: 220, G: 30, B: 30, A: 255},
	}
	out := make([]color.RGBA, wireworld.DisplayValueSize)
	for i := range out {
		c := wireworld.CellFromDisplay(uint8(i))
		col := base[c.Kind]
		if c.Fixed {
			col = shade(col, 0.6)
		}
		out[i] = col
	}
	return out
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Pixels returns the RGBA image bytes for cells.
func Pixels(cells []uint8, palette []color.RGBA) []byte {
	buf := make([]byte, len(cells)*4)
	fillPaletteRGBA(buf, cells, palette)
	return buf
}
