//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"wireworld/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Target is what the HUD displays and adjusts.
type Target interface {
	core.ParameterProvider
	core.ParameterControlsProvider
	core.FloatParameterSetter
	Name() string
	Size() core.Size
}

// HUD renders the playback panel to the right of the grid.
type HUD struct {
	target     Target
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	notes      []string

	controls     []hudControlState
	actions      []hudAction
	panelOffsetX int
	title        string

	pixel *ebiten.Image
}

type hudAction struct {
	action Action
	label  string
	rect   image.Rectangle
}

// NewHUD constructs a HUD for the provided target and panel width.
func NewHUD(target Target, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{target: target, width: width, title: target.Name()}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	for _, ctrl := range target.ParameterControls() {
		if ctrl.Type == core.ParamTypeFloat {
			h.controls = append(h.controls, hudControlState{control: ctrl, value: "--"})
		}
	}
	h.actions = []hudAction{
		{action: ActionPlay, label: "Play"},
		{action: ActionPause, label: "Pause"},
		{action: ActionRestart, label: "Restart"},
	}
	h.layout()
	return h
}

// SetNotes replaces the free text drawn below the parameters.
func (h *HUD) SetNotes(lines []string) {
	if h == nil {
		return
	}
	h.notes = lines
}

// Update refreshes the cached snapshot and returns the action button clicked
// this frame, if any.
func (h *HUD) Update(panelOffsetX int) Action {
	if h == nil {
		return ActionNone
	}
	h.panelOffsetX = panelOffsetX
	h.snapshot = h.target.Parameters()
	h.refreshControlValues()
	return h.handleInput()
}

// Draw paints the HUD panel anchored to the right edge of the grid.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.target.Size().H * scale
	if height < minPanelHeight {
		height = minPanelHeight
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawPanel()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok {
			state.hasValue = false
			state.value = "--"
			continue
		}
		v, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			state.hasValue = false
			state.value = "--"
			continue
		}
		state.floatValue = v
		state.hasValue = true
		state.value = formatFloat(state.control, v)
	}
}

func (h *HUD) handleInput() Action {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return ActionNone
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return ActionNone
	}
	px := mx - h.panelOffsetX
	for _, a := range h.actions {
		if pointInRect(px, my, a.rect) {
			return a.action
		}
	}
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.adjust(state, -1)
		} else if pointInRect(px, my, state.plusRect) {
			h.adjust(state, 1)
		}
	}
	return ActionNone
}

func (h *HUD) adjust(state *hudControlState, direction int) {
	target, ok := nextValue(state.control, state.floatValue, direction)
	if !ok {
		return
	}
	if h.target.SetFloatParameter(state.control.Key, target) {
		state.floatValue = target
		state.value = formatFloat(state.control, target)
	}
}

// nextValue steps v once in direction and reports whether the result stays
// within the control bounds and differs from v.
func nextValue(ctrl core.ParameterControl, v float64, direction int) (float64, bool) {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	target := ctrl.Clamp(v + float64(direction)*step)
	return target, math.Abs(target-v) >= 1e-9
}

func (h *HUD) drawPanel() {
	face := basicfont.Face7x13
	fg := color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dim := color.RGBA{R: 160, G: 160, B: 170, A: 255}

	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	for _, a := range h.actions {
		h.drawButton(a.rect, a.label, true)
	}
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, fg)
		valueColor := fg
		if !state.hasValue {
			valueColor = dim
		}
		bounds := text.BoundString(face, state.value)
		text.Draw(h.panel, state.value, face, state.minusRect.Min.X-buttonGap-bounds.Dx(), labelY, valueColor)

		_, minus := nextValue(state.control, state.floatValue, -1)
		_, plus := nextValue(state.control, state.floatValue, 1)
		h.drawButton(state.minusRect, "-", state.hasValue && minus)
		h.drawButton(state.plusRect, "+", state.hasValue && plus)
	}

	y := h.textTop()
	for _, g := range h.snapshot.Groups {
		text.Draw(h.panel, g.Name, face, panelPadding, y, dim)
		y += textLine
		for _, p := range g.Params {
			text.Draw(h.panel, fmt.Sprintf("%s: %s", p.Label, p.Value), face, panelPadding+8, y, fg)
			y += textLine
		}
		y += textLine / 2
	}
	for _, line := range h.notes {
		text.Draw(h.panel, line, face, panelPadding, y, fg)
		y += textLine
	}
}

func (h *HUD) textTop() int {
	return controlsTop + lineHeight*(1+len(h.controls)) + textLine
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layout() {
	if h.width <= 0 {
		return
	}
	x := panelPadding
	buttonY := controlsTop + (lineHeight-buttonSize)/2
	for i := range h.actions {
		w := 7*len(h.actions[i].label) + 2*buttonGap
		h.actions[i].rect = image.Rect(x, buttonY, x+w, buttonY+buttonSize)
		x += w + buttonGap
	}
	for i := range h.controls {
		top := controlsTop + (i+1)*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	precision := 1
	switch {
	case ctrl.Step < 0.01:
		precision = 3
	case ctrl.Step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type hudControlState struct {
	control    core.ParameterControl
	value      string
	floatValue float64
	hasValue   bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	textLine       = 16
	minPanelHeight = 360
	controlsTop    = panelPadding + headerBaseline + 14
)
