package wireworld

import (
	"fmt"

	"wireworld/internal/core"
)

// Change records a single cell transition produced by a tick or an edit.
type Change struct {
	Pos core.Point
	Old Cell
	New Cell
}

// World is the mutable runtime grid of one level attempt together with the
// worklist of cells that may change on the next tick.
//
// Invariant: a cell is in the active set if it is Electron or Tail, or if it
// is a Wire with an Electron neighbor. Cells outside the set are guaranteed
// not to change on the next tick.
type World struct {
	grid   *core.Grid[Cell]
	active []int
	queued []bool
}

// New returns an empty world of the given size.
func New(size core.Size) *World {
	g := core.NewGrid[Cell](size.W, size.H)
	return &World{grid: g, queued: make([]bool, len(g.Cells()))}
}

// FromCells builds a world from row-major cells and seeds the active set the
// same way a level start does.
func FromCells(size core.Size, cells []Cell) (*World, error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("wireworld: invalid size %dx%d", size.W, size.H)
	}
	if len(cells) != size.Area() {
		return nil, fmt.Errorf("wireworld: got %d cells for %dx%d grid", len(cells), size.W, size.H)
	}
	w := New(size)
	copy(w.grid.Cells(), cells)
	for idx := range cells {
		w.scheduleFor(idx)
	}
	return w, nil
}

// Size returns the grid dimensions.
func (w *World) Size() core.Size { return w.grid.Size() }

// Cells exposes the current cells in row-major order. Callers must not
// modify the returned slice; use Set instead.
func (w *World) Cells() []Cell { return w.grid.Cells() }

// Snapshot returns a copy of the current cells.
func (w *World) Snapshot() []Cell {
	return append([]Cell(nil), w.grid.Cells()...)
}

// Contains reports whether p lies inside the grid.
func (w *World) Contains(p core.Point) bool { return w.grid.Contains(p) }

// Cell returns the cell at p. Points outside the grid read as non-fixed Empty.
func (w *World) Cell(p core.Point) Cell {
	if !w.grid.Contains(p) {
		return Cell{}
	}
	return w.grid.At(p)
}

// Active returns the positions queued for evaluation on the next tick.
func (w *World) Active() []core.Point {
	out := make([]core.Point, len(w.active))
	for i, idx := range w.active {
		out[i] = w.grid.PointAt(idx)
	}
	return out
}

// Set writes c at p outside of the transition rule and updates the active set
// so the following ticks behave as if the engine had produced the change. It
// reports false when p is outside the grid.
func (w *World) Set(p core.Point, c Cell) (Change, bool) {
	if !w.grid.Contains(p) {
		return Change{}, false
	}
	idx := w.grid.Index(p.X, p.Y)
	cells := w.grid.Cells()
	old := cells[idx]
	cells[idx] = c
	w.scheduleFor(idx)
	return Change{Pos: p, Old: old, New: c}, true
}

// Tick advances the world by one generation and returns the cells that
// changed. Every candidate is classified against the state at the start of
// the tick; changes are committed together afterwards.
func (w *World) Tick() []Change {
	candidates := w.active
	w.active = make([]int, 0, len(candidates))

	var changes []Change
	for _, idx := range candidates {
		if !w.queued[idx] {
			continue
		}
		w.queued[idx] = false
		if next, ok := w.next(idx); ok {
			changes = append(changes, Change{Pos: w.grid.PointAt(idx), Old: w.grid.Cells()[idx], New: next})
		}
	}

	cells := w.grid.Cells()
	for _, ch := range changes {
		cells[w.grid.Index(ch.Pos.X, ch.Pos.Y)] = ch.New
	}

	for _, ch := range changes {
		idx := w.grid.Index(ch.Pos.X, ch.Pos.Y)
		switch ch.New.Kind {
		case KindElectron:
			w.schedule(idx)
			w.scheduleWireNeighbors(idx)
		case KindTail:
			w.schedule(idx)
		}
	}
	return changes
}

// next computes the state of idx for the following tick.
func (w *World) next(idx int) (Cell, bool) {
	c := w.grid.Cells()[idx]
	switch c.Kind {
	case KindElectron:
		return c.With(KindTail), true
	case KindTail:
		return c.With(KindWire), true
	case KindWire:
		if n := w.electronNeighbors(idx); n == 1 || n == 2 {
			return c.With(KindElectron), true
		}
	}
	return c, false
}

func (w *World) electronNeighbors(idx int) int {
	cells := w.grid.Cells()
	count := 0
	for _, n := range w.grid.Neighbors(idx) {
		if cells[n].Kind == KindElectron {
			count++
		}
	}
	return count
}

func (w *World) schedule(idx int) {
	if w.queued[idx] {
		return
	}
	w.queued[idx] = true
	w.active = append(w.active, idx)
}

func (w *World) scheduleWireNeighbors(idx int) {
	cells := w.grid.Cells()
	for _, n := range w.grid.Neighbors(idx) {
		if cells[n].Kind == KindWire {
			w.schedule(n)
		}
	}
}

// scheduleFor queues idx, and any neighbors it can influence, according to
// its current state.
func (w *World) scheduleFor(idx int) {
	switch w.grid.Cells()[idx].Kind {
	case KindElectron:
		w.schedule(idx)
		w.scheduleWireNeighbors(idx)
	case KindTail:
		w.schedule(idx)
	case KindWire:
		if w.electronNeighbors(idx) > 0 {
			w.schedule(idx)
		}
	}
}
