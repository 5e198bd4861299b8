package session

import (
	"fmt"
	"strconv"
	"time"

	"wireworld/internal/core"
	"wireworld/internal/exercise"
	"wireworld/internal/sims/wireworld"
)

const tickSecondsKey = "tick_seconds"

// SetSpeed changes the playback interval. Non-positive values fall back to
// the default interval.
func (s *Session) SetSpeed(d time.Duration) { s.clock.SetInterval(d) }

// Speed returns the playback interval.
func (s *Session) Speed() time.Duration { return s.clock.Interval() }

// Pause stops playback. The lock is kept.
func (s *Session) Pause() { s.clock.Pause() }

// Resume restarts playback without touching the lock.
func (s *Session) Resume() { s.clock.Resume() }

// Paused reports whether playback is stopped.
func (s *Session) Paused() bool { return s.clock.Paused() }

// Play sets the speed, starts playback and locks the grid when the level has
// exercises to verify.
func (s *Session) Play(d time.Duration) {
	s.SetSpeed(d)
	s.clock.Resume()
	s.lock = len(s.desc.Exercises) > 0
	s.logger.Debug("play", "interval", s.clock.Interval(), "locked", s.lock)
}

// Restart pauses playback, unlocks the grid and returns to the first
// exercise. The grid keeps the player's circuit. It returns the cells changed
// by the first exercise's instant-0 spawns.
func (s *Session) Restart() []wireworld.Change {
	s.clock.Pause()
	s.clock.Reset()
	s.lock = false
	s.last = OutcomeNone
	if len(s.desc.Exercises) == 0 {
		s.complete = false
		return nil
	}
	return s.activate(0)
}

// Reload discards the player's circuit, restoring the grid from the level,
// and restarts.
func (s *Session) Reload() error {
	world, err := s.desc.NewWorld()
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.world = world
	s.Restart()
	return nil
}

// OutputState is the runtime state of one expected output.
type OutputState struct {
	Pos    core.Point      `json:"pos"`
	From   int             `json:"from"`
	Until  int             `json:"until"`
	Status exercise.Status `json:"status"`
}

// Status is a read-only view of the session for front-ends.
type Status struct {
	ID                string        `json:"id"`
	Level             string        `json:"level"`
	Width             int           `json:"width"`
	Height            int           `json:"height"`
	Exercise          int           `json:"exercise"`
	Exercises         int           `json:"exercises"`
	Description       string        `json:"description,omitempty"`
	Ticks             int           `json:"ticks"`
	Timeout           int           `json:"timeout"`
	Outputs           []OutputState `json:"outputs"`
	Outcome           Outcome       `json:"outcome"`
	Locked            bool          `json:"locked"`
	Paused            bool          `json:"paused"`
	Complete          bool          `json:"complete"`
	ElectronAvailable bool          `json:"electron_available"`
	IntervalSeconds   float64       `json:"interval_seconds"`
}

// Status reports the current exercise progress and playback state.
func (s *Session) Status() Status {
	size := s.world.Size()
	st := Status{
		ID:                s.id.String(),
		Level:             s.desc.Name,
		Width:             size.W,
		Height:            size.H,
		Exercise:          -1,
		Exercises:         len(s.desc.Exercises),
		Outputs:           []OutputState{},
		Outcome:           s.last,
		Locked:            s.lock,
		Paused:            s.clock.Paused(),
		Complete:          s.complete,
		ElectronAvailable: s.desc.ElectronAvailable,
		IntervalSeconds:   s.clock.Interval().Seconds(),
	}
	if ex := s.current; ex != nil {
		st.Exercise = s.index
		st.Description = ex.Description
		st.Ticks = ex.Ticks
		st.Timeout = ex.Timeout
		for _, o := range ex.Outputs {
			st.Outputs = append(st.Outputs, OutputState{Pos: o.Pos, From: o.From, Until: o.Until, Status: o.Status})
		}
	}
	return st
}

// Parameters exposes the session state to the HUD.
func (s *Session) Parameters() core.ParameterSnapshot {
	st := s.Status()
	label := "-"
	if st.Exercise >= 0 {
		label = strconv.Itoa(st.Exercise+1) + "/" + strconv.Itoa(st.Exercises)
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Playback",
			Params: []core.Parameter{
				core.FloatParam(tickSecondsKey, "Seconds per tick", st.IntervalSeconds),
				core.BoolParam("paused", "Paused", st.Paused),
				core.BoolParam("locked", "Locked", st.Locked),
			},
		},
		{
			Name: "Exercise",
			Params: []core.Parameter{
				core.TextParam("exercise", "Exercise", label),
				core.IntParam("ticks", "Ticks", st.Ticks),
				core.IntParam("timeout", "Timeout", st.Timeout),
				core.TextParam("outcome", "Last outcome", st.Outcome.String()),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable parameters.
func (s *Session) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{{
		Key:    tickSecondsKey,
		Label:  "Seconds per tick",
		Type:   core.ParamTypeFloat,
		Step:   0.125,
		Min:    0.125,
		Max:    2,
		HasMin: true,
		HasMax: true,
	}}
}

// SetFloatParameter updates a float parameter exposed by ParameterControls.
func (s *Session) SetFloatParameter(key string, value float64) bool {
	if key != tickSecondsKey {
		return false
	}
	value = s.ParameterControls()[0].Clamp(value)
	s.SetSpeed(time.Duration(value * float64(time.Second)))
	return true
}
