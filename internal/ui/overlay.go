//go:build ebiten

package ui

import (
	"image/color"

	"wireworld/internal/exercise"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// ExerciseSource exposes the exercise currently being verified.
type ExerciseSource interface {
	Exercise() *exercise.Exercise
}

// Overlay outlines expected outputs, marks pending spawns and flashes the
// last tick outcome over the grid.
type Overlay struct {
	src   ExerciseSource
	scale int
	pixel *ebiten.Image

	banner string
	frames int
}

const flashFrames = 90

// NewOverlay constructs a new overlay instance.
func NewOverlay(src ExerciseSource, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{src: src, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Flash shows msg over the grid for a short while. Empty messages are ignored.
func (o *Overlay) Flash(msg string) {
	if msg == "" {
		return
	}
	o.banner = msg
	o.frames = flashFrames
}

// Update counts down the banner.
func (o *Overlay) Update() {
	if o.frames > 0 {
		o.frames--
	}
}

// Draw renders the markers and banner.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if ex := o.src.Exercise(); ex != nil {
		spawn := color.RGBA{R: 255, G: 255, B: 255, A: 200}
		for _, sp := range ex.Spawns {
			if sp.Instant <= ex.Ticks {
				continue
			}
			o.drawRect(screen, sp.Pos.X*o.scale+o.scale/4, sp.Pos.Y*o.scale+o.scale/4, o.scale/2, o.scale/2, spawn)
		}
		for _, out := range ex.Outputs {
			o.drawOutline(screen, out.Pos.X*o.scale, out.Pos.Y*o.scale, o.scale, StatusColor(out.Status))
		}
	}
	if o.frames > 0 && o.banner != "" {
		o.drawBanner(screen)
	}
}

func (o *Overlay) drawOutline(screen *ebiten.Image, x, y, size int, col color.RGBA) {
	t := size / 8
	if t < 1 {
		t = 1
	}
	o.drawRect(screen, x, y, size, t, col)
	o.drawRect(screen, x, y+size-t, size, t, col)
	o.drawRect(screen, x, y, t, size, col)
	o.drawRect(screen, x+size-t, y, t, size, col)
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h int, col color.RGBA) {
	if o.pixel == nil || w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawBanner(screen *ebiten.Image) {
	face := basicfont.Face7x13
	bounds := text.BoundString(face, o.banner)
	sw := screen.Bounds().Dx()
	w := bounds.Dx() + 2*panelPadding
	h := bounds.Dy() + 2*panelPadding
	x := (sw - w) / 2
	if x < 0 {
		x = 0
	}
	alpha := uint8(220 * o.frames / flashFrames)
	o.drawRect(screen, x, panelPadding, w, h, color.RGBA{A: alpha})
	text.Draw(screen, o.banner, face, x+panelPadding, panelPadding+panelPadding+bounds.Dy(), color.RGBA{R: 255, G: 255, B: 255, A: 255})
}
