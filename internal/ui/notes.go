// Package ui holds the desktop HUD and overlay drawn next to the grid.
package ui

import (
	"fmt"
	"image/color"
	"strings"

	"wireworld/internal/exercise"
	"wireworld/internal/session"
)

// Action is a HUD button press the app applies to the session.
type Action uint8

const (
	ActionNone Action = iota
	ActionPlay
	ActionPause
	ActionRestart
)

func (a Action) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionPause:
		return "pause"
	case ActionRestart:
		return "restart"
	}
	return "none"
}

const noteWidth = 34

// Notes formats the exercise description and output progress for the panel.
func Notes(st session.Status) []string {
	if st.Complete {
		return []string{"Level complete!"}
	}
	if st.Exercise < 0 {
		return []string{"Free play"}
	}
	lines := wrap(st.Description, noteWidth)
	for i, o := range st.Outputs {
		lines = append(lines, fmt.Sprintf("out %d (%d,%d) %d..%d %s", i+1, o.Pos.X, o.Pos.Y, o.From, o.Until, o.Status))
	}
	return lines
}

func wrap(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) > width:
				lines = append(lines, line)
				line = word
			default:
				line += " " + word
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// StatusColor is the marker color for an output in the given state.
func StatusColor(s exercise.Status) color.RGBA {
	switch s {
	case exercise.Waiting:
		return color.RGBA{R: 80, G: 160, B: 255, A: 255}
	case exercise.Success:
		return color.RGBA{R: 40, G: 220, B: 90, A: 255}
	case exercise.Fail:
		return color.RGBA{R: 255, G: 60, B: 60, A: 255}
	}
	return color.RGBA{R: 140, G: 140, B: 150, A: 255}
}

// Banner is the text flashed after a tick outcome, empty when nothing happened.
func Banner(o session.Outcome) string {
	switch o {
	case session.OutcomeFailed:
		return "Exercise failed"
	case session.OutcomeAdvanced:
		return "Exercise passed"
	case session.OutcomeLevelComplete:
		return "Level complete!"
	}
	return ""
}
