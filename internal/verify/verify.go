// Package verify plays levels headlessly, optionally with a player circuit
// applied on top, and reports whether every exercise passes.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"wireworld/internal/core"
	"wireworld/internal/level"
	"wireworld/internal/session"
	"wireworld/internal/sims/wireworld"
)

// SolutionExt is the extension of player circuit files stored next to levels.
const SolutionExt = ".solution"

// ErrTickLimit is reported when a level neither completes nor fails within
// the tick budget.
var ErrTickLimit = errors.New("tick limit reached")

// Options tunes a verification run.
type Options struct {
	// MaxTicks bounds the run. Zero derives a budget from the exercise
	// timeouts.
	MaxTicks int
	Logger   *slog.Logger
}

// Result describes the outcome of one verification run.
type Result struct {
	Level     string `json:"level"`
	Path      string `json:"path,omitempty"`
	Passed    bool   `json:"passed"`
	Exercises int    `json:"exercises"`
	// Completed counts exercises passed before the run stopped.
	Completed int `json:"completed"`
	// Failed is the index of the failing exercise, or -1.
	Failed int   `json:"failed"`
	Ticks  int   `json:"ticks"`
	Err    error `json:"-"`
}

// Error returns the run error as text for serialization.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Run plays desc with solution painted through the edit gate. Solution cells
// that are Empty are skipped; cells that already match the level are
// skipped too. A nil solution plays the level as shipped.
func Run(ctx context.Context, desc *level.Descriptor, solution []wireworld.Cell, opts Options) (Result, error) {
	res := Result{Level: desc.Name, Exercises: len(desc.Exercises), Failed: -1}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s, err := session.New(desc, session.WithLogger(logger))
	if err != nil {
		return res, err
	}
	if err := paint(s, solution); err != nil {
		return res, err
	}
	if len(desc.Exercises) == 0 {
		res.Passed = true
		return res, nil
	}

	limit := opts.MaxTicks
	if limit <= 0 {
		limit = budget(desc)
	}
	s.Play(core.DefaultTickInterval)
	for res.Ticks < limit {
		if res.Ticks%256 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		r := s.Tick()
		res.Ticks++
		switch r.Outcome {
		case session.OutcomeAdvanced:
			res.Completed++
		case session.OutcomeLevelComplete:
			res.Completed++
			res.Passed = true
			return res, nil
		case session.OutcomeFailed:
			res.Failed = r.Exercise
			return res, nil
		}
	}
	return res, fmt.Errorf("%s: %w after %d ticks", desc.Name, ErrTickLimit, res.Ticks)
}

// budget allows every exercise to run one tick past its timeout.
func budget(desc *level.Descriptor) int {
	n := 1
	for _, ex := range desc.Exercises {
		n += ex.Timeout + 2
	}
	return n
}

func paint(s *session.Session, solution []wireworld.Cell) error {
	if solution == nil {
		return nil
	}
	size := s.Size()
	if len(solution) != size.Area() {
		return fmt.Errorf("solution has %d cells, level needs %d", len(solution), size.Area())
	}
	for i, c := range solution {
		if c.Kind == wireworld.KindEmpty {
			continue
		}
		p := core.Point{X: i % size.W, Y: i / size.W}
		if s.World().Cell(p).Kind == c.Kind {
			continue
		}
		if _, err := s.Edit(p, c.Kind); err != nil {
			return fmt.Errorf("solution cell (%d,%d): %w", p.X, p.Y, err)
		}
	}
	return nil
}

// SolutionPath returns the solution file conventionally paired with a level.
func SolutionPath(levelPath string) string {
	return strings.TrimSuffix(levelPath, filepath.Ext(levelPath)) + SolutionExt
}

// RunFile parses the level at path and runs it with its paired solution file
// when one exists.
func RunFile(ctx context.Context, path string, opts Options) Result {
	res := Result{Level: filepath.Base(path), Path: path, Failed: -1}
	desc, err := level.ParseFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	var solution []wireworld.Cell
	data, err := os.ReadFile(SolutionPath(path))
	switch {
	case err == nil:
		solution, err = level.ParseGrid(string(data), desc.Size)
		if err != nil {
			res.Err = fmt.Errorf("%s: %w", SolutionPath(path), err)
			return res
		}
	case !errors.Is(err, os.ErrNotExist):
		res.Err = err
		return res
	}
	res, err = Run(ctx, desc, solution, opts)
	res.Path = path
	res.Err = err
	return res
}

// All verifies every path with at most workers runs in flight. Results keep
// the order of paths. Only context cancellation aborts the batch; per-level
// problems are reported in the results.
func All(ctx context.Context, paths []string, workers int, opts Options) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = RunFile(gCtx, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Glob lists the level files under dir in lexical order.
func Glob(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*"+level.Ext))
}
