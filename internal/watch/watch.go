// Package watch re-verifies level files as they are edited on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"wireworld/internal/level"
	"wireworld/internal/verify"
)

// DefaultDebounce is how long the watcher waits for further writes before
// verifying.
const DefaultDebounce = 200 * time.Millisecond

// Handler receives one result per verified level.
type Handler func(verify.Result)

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Verify   verify.Options
	Logger   *slog.Logger
}

// Watcher verifies a level whenever it or its solution file changes.
type Watcher struct {
	dir     string
	fsw     *fsnotify.Watcher
	handler Handler
	opts    Options
	logger  *slog.Logger
}

// New starts watching dir. Changes are only delivered once Run is called.
func New(dir string, handler Handler, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, fsw: fsw, handler: handler, opts: opts, logger: logger.With("dir", dir)}, nil
}

// Run delivers results until ctx is cancelled, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	pending := map[string]struct{}{}
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		slices.Sort(paths)
		clear(pending)
		timerC = nil
		for _, p := range paths {
			res := verify.RunFile(ctx, p, w.opts.Verify)
			w.logger.Debug("verified", "level", res.Level, "passed", res.Passed, "err", res.Err)
			if w.handler != nil {
				w.handler(res)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			path, ok := levelFor(ev)
			if !ok {
				continue
			}
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		case <-timerC:
			flush()
		}
	}
}

// levelFor maps a file event to the level that needs verifying.
func levelFor(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	switch filepath.Ext(ev.Name) {
	case level.Ext:
		return ev.Name, true
	case verify.SolutionExt:
		return ev.Name[:len(ev.Name)-len(verify.SolutionExt)] + level.Ext, true
	}
	return "", false
}
