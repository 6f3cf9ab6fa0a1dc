// Package watch re-runs a load whenever its input file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors produce on save.
const DefaultDebounce = 500 * time.Millisecond

// Func is run once at start and again after every change.
type Func func(ctx context.Context) error

// Watcher watches a single file. Runs are sequential.
type Watcher struct {
	file     string
	run      Func
	debounce time.Duration
	log      *slog.Logger
	watcher  *fsnotify.Watcher
}

// New watches the directory containing file, so the file may be replaced
// by rename as well as rewritten in place.
func New(file string, run Func, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", file, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		file:     abs,
		run:      run,
		debounce: debounce,
		log:      logger.With("file", abs),
		watcher:  fw,
	}, nil
}

// Run calls the function once, then again after each debounced change to
// the file, until ctx is done. An error from the first call is returned;
// later errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.run(ctx); err != nil {
		return err
	}
	w.log.Info("watching for changes")

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			w.log.Info("file changed, reloading")
			if err := w.run(ctx); err != nil {
				w.log.Error("reload failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	return err == nil && name == w.file
}
