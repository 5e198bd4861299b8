// Package level holds the immutable description of a Wireworld puzzle level
// and the parser for the line-oriented level file format.
package level

import (
	"wireworld/internal/core"
	"wireworld/internal/sims/wireworld"
)

// Ext is the file extension of level files.
const Ext = ".level"

// Descriptor is a parsed level. It is never mutated after Parse returns and
// outlives every attempt started from it.
type Descriptor struct {
	Name              string
	Size              core.Size
	ElectronAvailable bool
	Cells             []wireworld.Cell
	Exercises         []Exercise
}

// Exercise is one timed verification round of a level.
type Exercise struct {
	ID          int
	Description string
	Timeout     int
	Spawns      []Spawn
	Outputs     []Output
}

// Spawn injects an electron at Pos when the exercise tick counter reaches
// Instant.
type Spawn struct {
	Pos     core.Point
	Instant int
}

// Output expects an electron at Pos at some tick in [From, Until).
type Output struct {
	Pos   core.Point
	From  int
	Until int
}

// Cell returns the initial cell at p.
func (d *Descriptor) Cell(p core.Point) wireworld.Cell {
	return d.Cells[p.Y*d.Size.W+p.X]
}

// Contains reports whether p lies inside the level grid.
func (d *Descriptor) Contains(p core.Point) bool {
	return p.X >= 0 && p.X < d.Size.W && p.Y >= 0 && p.Y < d.Size.H
}

// NewWorld builds a fresh runtime grid from the level's initial cells.
func (d *Descriptor) NewWorld() (*wireworld.World, error) {
	return wireworld.FromCells(d.Size, d.Cells)
}

// Free returns a free-play level over cells: no exercises and electrons
// available. The cells are copied.
func Free(name string, size core.Size, cells []wireworld.Cell) *Descriptor {
	return &Descriptor{
		Name:              name,
		Size:              size,
		ElectronAvailable: true,
		Cells:             append([]wireworld.Cell(nil), cells...),
	}
}
