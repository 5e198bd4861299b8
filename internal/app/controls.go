// Package app hosts the desktop front-end for a level session.
package app

import (
	"wireworld/internal/core"
	"wireworld/internal/ui"
)

// Player is the playback state the space bar toggles.
type Player interface {
	Paused() bool
}

// TogglePlay returns the action the play/pause key maps to.
func TogglePlay(p Player) ui.Action {
	if p.Paused() {
		return ui.ActionPlay
	}
	return ui.ActionPause
}

// Brush paints with a held button once per cell, so dragging draws a line
// while holding still over one cell does nothing.
type Brush struct {
	down bool
	last core.Point
}

// Stroke reports whether p should be painted given the button state.
func (b *Brush) Stroke(p core.Point, pressed bool) bool {
	if !pressed {
		b.down = false
		return false
	}
	if b.down && b.last == p {
		return false
	}
	b.down, b.last = true, p
	return true
}

// Lift ends the current stroke.
func (b *Brush) Lift() { b.down = false }

// WindowSize is the logical screen size for a grid drawn at scale with the
// panel to its right.
func WindowSize(size core.Size, scale int) (int, int) {
	w := size.W*scale + HUDWidth
	h := size.H * scale
	if h < minWindowHeight {
		h = minWindowHeight
	}
	return w, h
}

const (
	// HUDWidth is the width of the panel drawn right of the grid.
	HUDWidth        = 300
	minWindowHeight = 360
)
