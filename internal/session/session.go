// Package session bundles everything one level attempt needs: the runtime
// grid, the active exercise, the playback clock and the edit lock. All
// operations run on the caller's goroutine; callers that share a Session
// across goroutines must serialize access themselves.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"wireworld/internal/core"
	"wireworld/internal/exercise"
	"wireworld/internal/level"
	"wireworld/internal/sims/wireworld"
)

// Outcome summarizes what a tick did to the exercise sequence.
type Outcome uint8

const (
	// OutcomeNone is reported when no exercise is active.
	OutcomeNone Outcome = iota
	OutcomeRunning
	OutcomeFailed
	OutcomeAdvanced
	OutcomeLevelComplete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeRunning:
		return "running"
	case OutcomeFailed:
		return "failed"
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeLevelComplete:
		return "complete"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Report is the result of one tick.
type Report struct {
	// Tick is the exercise tick that was evaluated, or zero without one.
	Tick int
	// Exercise is the index of the exercise the tick was evaluated against,
	// or -1 without one.
	Exercise int
	Changes  []wireworld.Change
	Outcome  Outcome
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for exercise transitions and edits.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithInterval sets the initial playback interval.
func WithInterval(d time.Duration) Option {
	return func(s *Session) { s.clock.SetInterval(d) }
}

// Session is the runtime state of one level.
type Session struct {
	id       uuid.UUID
	desc     *level.Descriptor
	world    *wireworld.World
	clock    *core.Clock
	logger   *slog.Logger
	index    int
	current  *exercise.Exercise
	lock     bool
	complete bool
	last     Outcome
}

// New starts desc: the grid is loaded from the descriptor, the first exercise
// (if any) becomes active and the clock is paused.
func New(desc *level.Descriptor, opts ...Option) (*Session, error) {
	if desc == nil {
		return nil, fmt.Errorf("session: nil level")
	}
	world, err := desc.NewWorld()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s := &Session{
		id:     uuid.New(),
		desc:   desc,
		world:  world,
		clock:  core.NewClock(core.DefaultTickInterval),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id.String(), "level", desc.Name)
	if len(desc.Exercises) > 0 {
		s.activate(0)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Level returns the descriptor the session was started from.
func (s *Session) Level() *level.Descriptor { return s.desc }

// World exposes the runtime grid for rendering. Mutations must go through the
// edit gate.
func (s *Session) World() *wireworld.World { return s.world }

// Name implements the renderer's naming hook.
func (s *Session) Name() string { return s.desc.Name }

// Size returns the grid dimensions.
func (s *Session) Size() core.Size { return s.world.Size() }

// Cells returns the grid encoded as display values.
func (s *Session) Cells() []uint8 {
	cells := s.world.Cells()
	out := make([]uint8, len(cells))
	for i, c := range cells {
		out[i] = c.DisplayValue()
	}
	return out
}

// Exercise returns the active exercise, or nil when the level has none or
// has been completed.
func (s *Session) Exercise() *exercise.Exercise { return s.current }

// Locked reports whether manual edits are blocked.
func (s *Session) Locked() bool { return s.lock }

// Complete reports whether every exercise has been passed.
func (s *Session) Complete() bool { return s.complete }

// Tick runs one step: the engine tick, due spawns, output evaluation and the
// outcome decision, strictly in that order.
func (s *Session) Tick() Report {
	ticksTotal.Inc()
	activeCells.Observe(float64(len(s.world.Active())))

	if s.current == nil {
		changes := s.world.Tick()
		cellChangesTotal.Add(float64(len(changes)))
		s.last = OutcomeNone
		return Report{Exercise: -1, Changes: changes, Outcome: OutcomeNone}
	}

	// Any tick of a running exercise is verification: the grid stays locked
	// until the exercise fails or the level completes.
	s.lock = true
	s.current.Ticks++
	changes := s.world.Tick()
	changes = append(changes, s.spawn()...)
	s.current.Observe(s.hasElectron)

	r := Report{Tick: s.current.Ticks, Exercise: s.index}
	switch s.current.Verdict() {
	case exercise.Failed:
		r.Outcome = OutcomeFailed
		s.logger.Info("exercise failed", "exercise", s.index, "ticks", s.current.Ticks)
		s.clock.Pause()
		s.lock = false
		changes = append(changes, s.activate(0)...)
	case exercise.Passed:
		s.logger.Info("exercise passed", "exercise", s.index, "ticks", s.current.Ticks)
		if next := s.index + 1; next < len(s.desc.Exercises) {
			r.Outcome = OutcomeAdvanced
			changes = append(changes, s.activate(next)...)
		} else {
			r.Outcome = OutcomeLevelComplete
			s.logger.Info("level complete")
			s.current = nil
			s.complete = true
			s.clock.Pause()
			s.lock = false
		}
	default:
		r.Outcome = OutcomeRunning
	}
	exerciseOutcomes.WithLabelValues(r.Outcome.String()).Inc()
	cellChangesTotal.Add(float64(len(changes)))

	r.Changes = changes
	s.last = r.Outcome
	return r
}

// Advance feeds delta into the playback clock and ticks once if the interval
// has elapsed.
func (s *Session) Advance(delta time.Duration) (Report, bool) {
	if !s.clock.Advance(delta) {
		return Report{}, false
	}
	return s.Tick(), true
}

// Step is Advance driven by wall-clock time.
func (s *Session) Step() (Report, bool) {
	if !s.clock.ShouldStep() {
		return Report{}, false
	}
	return s.Tick(), true
}

// activate makes exercise i current with fresh runtime records, then fires
// its instant-0 spawns and observes the outputs once at tick 0.
func (s *Session) activate(i int) []wireworld.Change {
	s.index = i
	s.complete = false
	s.current = exercise.New(s.desc.Exercises[i])
	changes := s.spawn()
	s.current.Observe(s.hasElectron)
	s.logger.Debug("exercise started", "exercise", i, "timeout", s.current.Timeout)
	return changes
}

func (s *Session) spawn() []wireworld.Change {
	var changes []wireworld.Change
	for _, sp := range s.current.DueSpawns() {
		old := s.world.Cell(sp.Pos)
		if ch, ok := s.world.Set(sp.Pos, old.With(wireworld.KindElectron)); ok && ch.Old != ch.New {
			changes = append(changes, ch)
		}
	}
	return changes
}

func (s *Session) hasElectron(p core.Point) bool {
	return s.world.Cell(p).Kind == wireworld.KindElectron
}
