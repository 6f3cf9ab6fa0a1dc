// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
)

var (
	// level is shared by every handler created by Init so SetVerbose can
	// change it after the fact.
	level = new(slog.LevelVar)
	mu    sync.Mutex
)

// Options configures Init.
type Options struct {
	// Verbose enables debug output.
	Verbose bool

	// JSON switches to a JSON handler for machine consumption.
	JSON bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// Init builds the logger described by opts, installs it as the slog
// default and returns it.
func Init(opts Options) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	SetVerbose(opts.Verbose)

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			NoColor:    color.NoColor || w != os.Stderr,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// SetVerbose switches between debug and info level.
func SetVerbose(verbose bool) {
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}
