package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireworld/internal/sims/wireworld"
)

func TestPaletteCoversDisplayValues(t *testing.T) {
	p := Palette()
	require.Len(t, p, wireworld.DisplayValueSize)
	assert.Equal(t, color.RGBA{R: 255, G: 230, B: 0, A: 255}, p[wireworld.Electron(false).DisplayValue()])
	assert.NotEqual(t, p[wireworld.Wire(false).DisplayValue()], p[wireworld.Wire(true).DisplayValue()])
	assert.NotEqual(t, p[wireworld.Empty(false).DisplayValue()], p[wireworld.Empty(true).DisplayValue()])
}

func TestPixels(t *testing.T) {
	palette := []color.RGBA{{R: 1, G: 2, B: 3, A: 4}, {R: 5, G: 6, B: 7, A: 8}}
	got := Pixels([]uint8{0, 1, 9}, palette)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 5, 6, 7, 8}, got, "values past the palette use its last entry")
}

func TestPixelsEmptyPalette(t *testing.T) {
	buf := []byte{9, 9, 9, 9}
	fillPaletteRGBA(buf, []uint8{3}, nil)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}
