package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wireworld/internal/core"
	"wireworld/internal/exercise"
	"wireworld/internal/session"
)

func TestNotes(t *testing.T) {
	st := session.Status{
		Exercise:    0,
		Description: "Send one electron along the wire to the lamp on the right side",
		Outputs: []session.OutputState{
			{Pos: core.Point{X: 4, Y: 1}, From: 2, Until: 5, Status: exercise.Waiting},
		},
	}
	assert.Equal(t, []string{
		"Send one electron along the wire",
		"to the lamp on the right side",
		"out 1 (4,1) 2..5 waiting",
	}, Notes(st))
}

func TestNotesFreeAndComplete(t *testing.T) {
	assert.Equal(t, []string{"Free play"}, Notes(session.Status{Exercise: -1}))
	assert.Equal(t, []string{"Level complete!"}, Notes(session.Status{Exercise: -1, Complete: true}))
}

func TestWrapKeepsParagraphs(t *testing.T) {
	assert.Equal(t, []string{"a b", "c"}, wrap("a b\n\nc", 10))
	assert.Empty(t, wrap("", 10))
}

func TestBanner(t *testing.T) {
	assert.Empty(t, Banner(session.OutcomeRunning))
	assert.Equal(t, "Exercise failed", Banner(session.OutcomeFailed))
	assert.Equal(t, "Level complete!", Banner(session.OutcomeLevelComplete))
}

func TestStatusColorsDiffer(t *testing.T) {
	seen := map[any]exercise.Status{}
	for _, s := range []exercise.Status{exercise.Inactive, exercise.Waiting, exercise.Success, exercise.Fail} {
		c := StatusColor(s)
		_, dup := seen[c]
		assert.False(t, dup, "%s shares a color", s)
		seen[c] = s
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "restart", ActionRestart.String())
	assert.Equal(t, "none", Action(42).String())
}
