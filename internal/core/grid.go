package core

// Point addresses a grid cell by column and row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// neighborOffsets lists the 8-connected Moore neighborhood.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Grid stores a 2D grid of cell values in row-major order.
type Grid[T any] struct {
	W, H int
	data []T
}

// NewGrid allocates a grid with the given dimensions.
func NewGrid[T any](w, h int) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid[T]{W: w, H: h, data: make([]T, w*h)}
}

// Size returns the grid dimensions.
func (g *Grid[T]) Size() Size { return Size{W: g.W, H: g.H} }

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[T]) Index(x, y int) int { return y*g.W + x }

// PointAt converts a linear index back into coordinates.
func (g *Grid[T]) PointAt(idx int) Point { return Point{X: idx % g.W, Y: idx / g.W} }

// Contains reports whether p lies inside the grid without wrapping.
func (g *Grid[T]) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.W && p.Y >= 0 && p.Y < g.H
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid[T]) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// At returns the value stored at p. p must be inside the grid.
func (g *Grid[T]) At(p Point) T { return g.data[g.Index(p.X, p.Y)] }

// Set stores v at p. p must be inside the grid.
func (g *Grid[T]) Set(p Point, v T) { g.data[g.Index(p.X, p.Y)] = v }

// Neighbors returns the linear indices of the 8 toroidal neighbors of idx.
// On grids narrower or shorter than 3 cells some indices repeat, so every
// cell still has exactly 8 neighbors.
func (g *Grid[T]) Neighbors(idx int) [8]int {
	x, y := idx%g.W, idx/g.W
	var out [8]int
	for i, off := range neighborOffsets {
		nx, ny := g.Wrap(x+off[0], y+off[1])
		out[i] = g.Index(nx, ny)
	}
	return out
}

// Clear fills the grid with the zero value.
func (g *Grid[T]) Clear() {
	var zero T
	for i := range g.data {
		g.data[i] = zero
	}
}
