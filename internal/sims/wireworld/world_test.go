package wireworld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireworld/internal/core"
	rng "wireworld/pkg/core"
)

func pt(x, y int) core.Point { return core.Point{X: x, Y: y} }

func worldFrom(t *testing.T, w, h int, set map[core.Point]Cell) *World {
	t.Helper()
	size := core.Size{W: w, H: h}
	cells := make([]Cell, size.Area())
	for p, c := range set {
		cells[p.Y*w+p.X] = c
	}
	world, err := FromCells(size, cells)
	require.NoError(t, err)
	return world
}

func changeAt(changes []Change, p core.Point) (Change, bool) {
	for _, ch := range changes {
		if ch.Pos == p {
			return ch, true
		}
	}
	return Change{}, false
}

func TestDecayCycle(t *testing.T) {
	world := worldFrom(t, 3, 3, map[core.Point]Cell{pt(1, 1): Electron(false)})

	changes := world.Tick()
	require.Len(t, changes, 1)
	assert.Equal(t, Change{Pos: pt(1, 1), Old: Electron(false), New: Tail(false)}, changes[0])

	changes = world.Tick()
	require.Len(t, changes, 1)
	assert.Equal(t, Wire(false), changes[0].New)
	assert.Empty(t, world.Active())

	assert.Empty(t, world.Tick())
	assert.Equal(t, Wire(false), world.Cell(pt(1, 1)))
}

func TestFixedFlagSurvivesTransitions(t *testing.T) {
	world := worldFrom(t, 3, 3, map[core.Point]Cell{pt(1, 1): Electron(true)})
	world.Tick()
	assert.Equal(t, Tail(true), world.Cell(pt(1, 1)))
	world.Tick()
	assert.Equal(t, Wire(true), world.Cell(pt(1, 1)))
}

func TestIgnitionThreshold(t *testing.T) {
	// Wire at the centre of a 5x5 grid, electrons on the first n neighbors.
	around := []core.Point{pt(1, 1), pt(2, 1), pt(3, 1), pt(1, 2), pt(3, 2), pt(1, 3), pt(2, 3), pt(3, 3)}
	for n := 0; n <= 8; n++ {
		set := map[core.Point]Cell{pt(2, 2): Wire(false)}
		for _, p := range around[:n] {
			set[p] = Electron(false)
		}
		world := worldFrom(t, 5, 5, set)
		world.Tick()

		want := KindWire
		if n == 1 || n == 2 {
			want = KindElectron
		}
		assert.Equal(t, want, world.Cell(pt(2, 2)).Kind, "electron neighbors=%d", n)
	}
}

func TestIgnitionAcrossWrappedEdges(t *testing.T) {
	world := worldFrom(t, 4, 4, map[core.Point]Cell{
		pt(0, 0): Wire(false),
		pt(3, 3): Electron(false),
	})
	changes := world.Tick()
	ch, ok := changeAt(changes, pt(0, 0))
	require.True(t, ok, "corner wire should see the opposite corner")
	assert.Equal(t, Electron(false), ch.New)
}

func TestTwoVersusThreeElectronNeighbors(t *testing.T) {
	world := worldFrom(t, 4, 7, map[core.Point]Cell{
		pt(1, 1): Wire(false),
		pt(0, 0): Electron(false),
		pt(2, 0): Electron(false),

		pt(1, 5): Wire(false),
		pt(0, 6): Electron(false),
		pt(1, 6): Electron(false),
		pt(2, 6): Electron(false),
	})

	changes := world.Tick()

	ch, ok := changeAt(changes, pt(1, 1))
	require.True(t, ok)
	assert.Equal(t, Electron(false), ch.New)

	_, ok = changeAt(changes, pt(1, 5))
	assert.False(t, ok, "wire with three electron neighbors must not ignite")
	assert.Equal(t, Wire(false), world.Cell(pt(1, 5)))

	for _, p := range []core.Point{pt(0, 0), pt(2, 0), pt(0, 6), pt(1, 6), pt(2, 6)} {
		assert.Equal(t, Tail(false), world.Cell(p), "electron at %v", p)
	}
}

func TestSimultaneousUpdate(t *testing.T) {
	// A straight wire: the head must advance exactly one cell per tick even
	// though the next wire cell is evaluated after the head in the worklist.
	world := worldFrom(t, 6, 3, map[core.Point]Cell{
		pt(0, 1): Tail(false),
		pt(1, 1): Electron(false),
		pt(2, 1): Wire(false),
		pt(3, 1): Wire(false),
		pt(4, 1): Wire(false),
	})

	world.Tick()
	assert.Equal(t, KindWire, world.Cell(pt(0, 1)).Kind)
	assert.Equal(t, KindTail, world.Cell(pt(1, 1)).Kind)
	assert.Equal(t, KindElectron, world.Cell(pt(2, 1)).Kind)
	assert.Equal(t, KindWire, world.Cell(pt(3, 1)).Kind)

	world.Tick()
	assert.Equal(t, KindWire, world.Cell(pt(1, 1)).Kind)
	assert.Equal(t, KindTail, world.Cell(pt(2, 1)).Kind)
	assert.Equal(t, KindElectron, world.Cell(pt(3, 1)).Kind)
}

func TestShuffledActiveSetGivesSameGrid(t *testing.T) {
	sandbox := NewSandbox(SandboxConfig{Width: 40, Height: 30, Loops: 20})
	sandbox.Reset(7)
	cells := sandbox.World().Snapshot()
	size := sandbox.Size()

	ordered, err := FromCells(size, cells)
	require.NoError(t, err)
	shuffled, err := FromCells(size, cells)
	require.NoError(t, err)

	r := rng.NewRNG(99)
	for tick := 0; tick < 25; tick++ {
		rng.Shuffle(r, shuffled.active)
		ordered.Tick()
		shuffled.Tick()
		require.Equal(t, ordered.Cells(), shuffled.Cells(), "tick %d", tick)
	}
}

func TestActiveSetMatchesInvariant(t *testing.T) {
	sandbox := NewSandbox(SandboxConfig{Width: 30, Height: 30, Loops: 12})
	sandbox.Reset(3)
	world := sandbox.World()

	for tick := 0; tick < 10; tick++ {
		world.Tick()
		active := map[core.Point]bool{}
		for _, p := range world.Active() {
			active[p] = true
		}
		size := world.Size()
		for y := 0; y < size.H; y++ {
			for x := 0; x < size.W; x++ {
				c := world.Cell(pt(x, y))
				if c.Kind == KindElectron || c.Kind == KindTail {
					assert.True(t, active[pt(x, y)], "tick %d: %v at (%d,%d) not active", tick, c, x, y)
				}
			}
		}
	}
}

func TestNoElectronsMeansNoWork(t *testing.T) {
	world := worldFrom(t, 5, 5, map[core.Point]Cell{
		pt(1, 1): Wire(false),
		pt(2, 1): Wire(true),
	})
	assert.Empty(t, world.Active())
	assert.Empty(t, world.Tick())
	assert.Empty(t, world.Active())
}

func TestSetSchedulesLikeEngine(t *testing.T) {
	world := worldFrom(t, 5, 5, map[core.Point]Cell{
		pt(1, 2): Wire(false),
		pt(3, 2): Wire(false),
	})

	ch, ok := world.Set(pt(2, 2), Electron(false))
	require.True(t, ok)
	assert.Equal(t, Empty(false), ch.Old)
	assert.ElementsMatch(t, []core.Point{pt(2, 2), pt(1, 2), pt(3, 2)}, world.Active())

	world.Tick()
	assert.Equal(t, KindElectron, world.Cell(pt(1, 2)).Kind)
	assert.Equal(t, KindElectron, world.Cell(pt(3, 2)).Kind)
	assert.Equal(t, KindTail, world.Cell(pt(2, 2)).Kind)
}

func TestSetWireNextToElectronIsActive(t *testing.T) {
	world := worldFrom(t, 5, 5, map[core.Point]Cell{pt(2, 2): Electron(false)})
	world.Set(pt(3, 3), Wire(false))
	assert.Contains(t, world.Active(), pt(3, 3))

	world.Tick()
	assert.Equal(t, KindElectron, world.Cell(pt(3, 3)).Kind)
}

func TestSetOutsideGrid(t *testing.T) {
	world := New(core.Size{W: 2, H: 2})
	_, ok := world.Set(pt(2, 0), Wire(false))
	assert.False(t, ok)
	assert.Equal(t, Cell{}, world.Cell(pt(-1, 0)))
}

func TestFromCellsRejectsMismatch(t *testing.T) {
	_, err := FromCells(core.Size{W: 2, H: 2}, make([]Cell, 3))
	assert.Error(t, err)
	_, err = FromCells(core.Size{W: 0, H: 2}, nil)
	assert.Error(t, err)
}

func TestSingleCellWorld(t *testing.T) {
	world := worldFrom(t, 1, 1, map[core.Point]Cell{pt(0, 0): Electron(false)})
	require.Len(t, world.Tick(), 1)
	assert.Equal(t, Tail(false), world.Cell(pt(0, 0)))
	require.Len(t, world.Tick(), 1)
	assert.Equal(t, Wire(false), world.Cell(pt(0, 0)))
	assert.Empty(t, world.Tick())
}

func TestDisplayValueRoundTrip(t *testing.T) {
	for _, c := range []Cell{Empty(false), Empty(true), Wire(false), Wire(true), Electron(false), Electron(true), Tail(false), Tail(true)} {
		assert.Equal(t, c, CellFromDisplay(c.DisplayValue()))
		assert.Less(t, int(c.DisplayValue()), DisplayValueSize)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindEmpty, KindWire, KindElectron, KindTail} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("plasma")
	assert.Error(t, err)
}
