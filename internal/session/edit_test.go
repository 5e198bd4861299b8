package session

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireworld/internal/core"
	"wireworld/internal/level"
	"wireworld/internal/sims/wireworld"
)

func parse(t *testing.T, text string) *Session {
	t.Helper()
	d, err := level.Parse(text)
	require.NoError(t, err)
	s, err := New(d)
	require.NoError(t, err)
	return s
}

const gateLevel = "3 2\ntrue\nW E .\n. w a\n1\ngate\n\n9\n0\n0\n"

func TestEditRejections(t *testing.T) {
	cases := []struct {
		name string
		text string
		pos  core.Point
		kind wireworld.Kind
		lock bool
		want error
	}{
		{"fixed wire", gateLevel, core.Point{X: 0, Y: 0}, wireworld.KindEmpty, false, ErrFixedCell},
		{"fixed empty", gateLevel, core.Point{X: 1, Y: 0}, wireworld.KindWire, false, ErrFixedCell},
		{"locked", gateLevel, core.Point{X: 2, Y: 0}, wireworld.KindWire, true, ErrLocked},
		{"outside right", gateLevel, core.Point{X: 3, Y: 0}, wireworld.KindWire, false, ErrOutOfBounds},
		{"outside negative", gateLevel, core.Point{X: -1, Y: 1}, wireworld.KindWire, false, ErrOutOfBounds},
		{"no electrons", "2 1\nfalse\n. .\n0\n", core.Point{X: 0, Y: 0}, wireworld.KindElectron, false, ErrElectronUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := parse(t, tc.text)
			s.lock = tc.lock
			before := s.world.Snapshot()

			_, err := s.Edit(tc.pos, tc.kind)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.False(t, s.TryEdit(tc.pos, tc.kind))
			assert.Equal(t, before, s.world.Snapshot(), "rejected edits leave the grid untouched")
		})
	}
}

func TestFixedCellsNeverEditable(t *testing.T) {
	s := parse(t, gateLevel)
	for _, p := range []core.Point{{X: 0, Y: 0}, {X: 1, Y: 0}} {
		for _, k := range []wireworld.Kind{wireworld.KindEmpty, wireworld.KindWire, wireworld.KindElectron, wireworld.KindTail} {
			assert.False(t, s.TryEdit(p, k))
		}
	}
	assert.Equal(t, wireworld.Wire(true), s.world.Cell(core.Point{X: 0, Y: 0}))
	assert.Equal(t, wireworld.Empty(true), s.world.Cell(core.Point{X: 1, Y: 0}))
}

func TestEditAccepted(t *testing.T) {
	s := parse(t, gateLevel)
	p := core.Point{X: 2, Y: 0}

	ch, err := s.Edit(p, wireworld.KindWire)
	require.NoError(t, err)
	assert.Equal(t, wireworld.Change{Pos: p, Old: wireworld.Empty(false), New: wireworld.Wire(false)}, ch)

	// The new wire touches the electron at (2,1) and must ignite next tick.
	assert.Contains(t, s.world.Active(), p)
	s.Tick()
	assert.Equal(t, wireworld.Electron(false), s.world.Cell(p))
}

func TestEditedElectronPropagates(t *testing.T) {
	s := parse(t, "4 3\ntrue\n. . . .\n. w w .\n. . . .\n0\n")
	require.True(t, s.TryClick(core.Point{X: 0, Y: 1}, ButtonRight))
	s.Tick()
	assert.Equal(t, wireworld.Electron(false), s.world.Cell(core.Point{X: 1, Y: 1}))
	s.Tick()
	assert.Equal(t, wireworld.Electron(false), s.world.Cell(core.Point{X: 2, Y: 1}))
}

func TestButtonMapping(t *testing.T) {
	assert.Equal(t, wireworld.KindWire, ButtonLeft.Kind())
	assert.Equal(t, wireworld.KindElectron, ButtonRight.Kind())
	assert.Equal(t, wireworld.KindEmpty, ButtonMiddle.Kind())
}

func TestEditMetrics(t *testing.T) {
	s := parse(t, gateLevel)
	locked := testutil.ToFloat64(editsTotal.WithLabelValues("locked"))
	accepted := testutil.ToFloat64(editsTotal.WithLabelValues("accepted"))

	assert.True(t, s.TryEdit(core.Point{X: 2, Y: 0}, wireworld.KindWire))
	s.Play(0)
	assert.False(t, s.TryEdit(core.Point{X: 2, Y: 0}, wireworld.KindEmpty))

	assert.Equal(t, accepted+1, testutil.ToFloat64(editsTotal.WithLabelValues("accepted")))
	assert.Equal(t, locked+1, testutil.ToFloat64(editsTotal.WithLabelValues("locked")))
}

func TestEditSameKindChangesNothing(t *testing.T) {
	s := parse(t, gateLevel)
	p := core.Point{X: 1, Y: 1}
	changes := testutil.ToFloat64(cellChangesTotal)
	unchanged := testutil.ToFloat64(editsTotal.WithLabelValues("unchanged"))
	active := s.world.Active()

	ch, err := s.Edit(p, wireworld.KindWire)
	require.NoError(t, err)
	assert.Equal(t, ch.Old, ch.New)
	assert.Equal(t, wireworld.Wire(false), ch.New)
	assert.Equal(t, active, s.world.Active())
	assert.Equal(t, changes, testutil.ToFloat64(cellChangesTotal))
	assert.Equal(t, unchanged+1, testutil.ToFloat64(editsTotal.WithLabelValues("unchanged")))
}
