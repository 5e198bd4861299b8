package session

import (
	"errors"
	"fmt"

	"wireworld/internal/core"
	"wireworld/internal/sims/wireworld"
)

// Reasons an edit is rejected.
var (
	ErrOutOfBounds         = errors.New("position outside grid")
	ErrLocked              = errors.New("grid locked during playback")
	ErrFixedCell           = errors.New("cell is fixed")
	ErrElectronUnavailable = errors.New("electrons unavailable in this level")
)

// Button identifies the pointer button behind an edit.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Kind returns the cell kind a click with b paints.
func (b Button) Kind() wireworld.Kind {
	switch b {
	case ButtonRight:
		return wireworld.KindElectron
	case ButtonMiddle:
		return wireworld.KindEmpty
	default:
		return wireworld.KindWire
	}
}

// Edit writes kind at p on behalf of the player. The written cell keeps its
// fixed flag, which is always false for accepted edits.
func (s *Session) Edit(p core.Point, kind wireworld.Kind) (wireworld.Change, error) {
	ch, err := s.edit(p, kind)
	result := ""
	switch {
	case errors.Is(err, ErrOutOfBounds):
		result = "out_of_bounds"
	case errors.Is(err, ErrLocked):
		result = "locked"
	case errors.Is(err, ErrFixedCell):
		result = "fixed"
	case errors.Is(err, ErrElectronUnavailable):
		result = "electron_unavailable"
	}
	if err != nil {
		editsTotal.WithLabelValues(result).Inc()
		s.logger.Debug("edit rejected", "x", p.X, "y", p.Y, "kind", kind, "reason", err)
		return wireworld.Change{}, err
	}
	if ch.Old == ch.New {
		editsTotal.WithLabelValues("unchanged").Inc()
		return ch, nil
	}
	editsTotal.WithLabelValues("accepted").Inc()
	cellChangesTotal.Inc()
	return ch, nil
}

func (s *Session) edit(p core.Point, kind wireworld.Kind) (wireworld.Change, error) {
	if !s.world.Contains(p) {
		return wireworld.Change{}, fmt.Errorf("edit (%d,%d): %w", p.X, p.Y, ErrOutOfBounds)
	}
	if s.lock {
		return wireworld.Change{}, ErrLocked
	}
	cell := s.world.Cell(p)
	if cell.Fixed {
		return wireworld.Change{}, fmt.Errorf("edit (%d,%d): %w", p.X, p.Y, ErrFixedCell)
	}
	if kind == wireworld.KindElectron && !s.desc.ElectronAvailable {
		return wireworld.Change{}, ErrElectronUnavailable
	}
	next := cell.With(kind)
	if next == cell {
		return wireworld.Change{Pos: p, Old: cell, New: cell}, nil
	}
	ch, _ := s.world.Set(p, next)
	return ch, nil
}

// TryEdit reports whether the edit was accepted.
func (s *Session) TryEdit(p core.Point, kind wireworld.Kind) bool {
	_, err := s.Edit(p, kind)
	return err == nil
}

// TryClick applies the edit mapped to button b.
func (s *Session) TryClick(p core.Point, b Button) bool {
	return s.TryEdit(p, b.Kind())
}
