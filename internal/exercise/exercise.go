// Package exercise implements the timed verification state machine that
// scores a circuit against one exercise of a level.
package exercise

import (
	"fmt"

	"wireworld/internal/core"
	"wireworld/internal/level"
)

// Status is the state of one expected output.
type Status uint8

const (
	Inactive Status = iota
	Waiting
	Success
	Fail
)

func (s Status) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Waiting:
		return "waiting"
	case Success:
		return "success"
	case Fail:
		return "fail"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Verdict is the outcome of an exercise after a tick.
type Verdict uint8

const (
	Pending Verdict = iota
	Passed
	Failed
)

func (v Verdict) String() string {
	switch v {
	case Pending:
		return "pending"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("verdict(%d)", uint8(v))
	}
}

// Output is the runtime state of one expected output window.
type Output struct {
	Pos    core.Point
	From   int
	Until  int
	Status Status
}

// Spawn is a one-shot electron injection.
type Spawn struct {
	Pos     core.Point
	Instant int
}

// Exercise is the runtime state of the active exercise. A new Exercise is
// built every time an exercise starts; nothing carries over between
// attempts.
type Exercise struct {
	ID          int
	Description string
	Ticks       int
	Timeout     int
	Spawns      []Spawn
	Outputs     []Output
}

// New instantiates runtime records from immutable exercise data.
func New(data level.Exercise) *Exercise {
	ex := &Exercise{
		ID:          data.ID,
		Description: data.Description,
		Timeout:     data.Timeout,
		Spawns:      make([]Spawn, len(data.Spawns)),
		Outputs:     make([]Output, len(data.Outputs)),
	}
	for i, s := range data.Spawns {
		ex.Spawns[i] = Spawn{Pos: s.Pos, Instant: s.Instant}
	}
	for i, o := range data.Outputs {
		ex.Outputs[i] = Output{Pos: o.Pos, From: o.From, Until: o.Until, Status: Inactive}
	}
	return ex
}

// DueSpawns returns the spawns firing at the current tick.
func (e *Exercise) DueSpawns() []Spawn {
	var due []Spawn
	for _, s := range e.Spawns {
		if s.Instant == e.Ticks {
			due = append(due, s)
		}
	}
	return due
}

// Observe updates every output for the current tick. hasElectron reports
// whether the cell at a position currently holds an electron.
func (e *Exercise) Observe(hasElectron func(core.Point) bool) {
	for i := range e.Outputs {
		o := &e.Outputs[i]
		switch {
		case e.Ticks < o.From:
			o.Status = Inactive
		case e.Ticks < o.Until:
			if o.Status == Inactive {
				o.Status = Waiting
			}
			if hasElectron(o.Pos) {
				o.Status = Success
			}
		case o.Status != Success:
			o.Status = Fail
		}
	}
}

// Verdict decides the exercise outcome from the current output statuses.
// Failure wins over success.
func (e *Exercise) Verdict() Verdict {
	if e.Ticks > e.Timeout {
		return Failed
	}
	passed := true
	for _, o := range e.Outputs {
		switch o.Status {
		case Fail:
			return Failed
		case Success:
		default:
			passed = false
		}
	}
	if passed {
		return Passed
	}
	return Pending
}

// Statuses returns a copy of the output statuses in file order.
func (e *Exercise) Statuses() []Status {
	out := make([]Status, len(e.Outputs))
	for i, o := range e.Outputs {
		out[i] = o.Status
	}
	return out
}
