package loader

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultBatchSize is the number of processed records between flushes.
const DefaultBatchSize = 5

// defaultKeyChunk bounds the IN list of a bulk existence query.
const defaultKeyChunk = 500

// ExistenceMode selects how the loader decides insert vs update.
type ExistenceMode int

const (
	// ExistencePerRecord issues one COUNT(*) query per record.
	ExistencePerRecord ExistenceMode = iota

	// ExistenceBulk fetches all existing keys up front and classifies in
	// memory.
	ExistenceBulk
)

// String returns the configuration name of the mode.
func (m ExistenceMode) String() string {
	switch m {
	case ExistenceBulk:
		return "bulk"
	default:
		return "per-record"
	}
}

// ParseExistenceMode parses "per-record" or "bulk".
func ParseExistenceMode(s string) (ExistenceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per-record", "per_record", "record":
		return ExistencePerRecord, nil
	case "bulk":
		return ExistenceBulk, nil
	default:
		return 0, fmt.Errorf("unknown existence mode %q", s)
	}
}

// Options configures a Loader.
type Options struct {
	// BatchSize is the number of processed records between flushes.
	// Default: 5
	BatchSize int

	// Existence selects the existence check strategy.
	// Default: ExistencePerRecord
	Existence ExistenceMode

	// KeyChunk bounds the IN list in bulk mode.
	// Default: 500
	KeyChunk int

	// Logger receives flush and summary lines.
	Logger *slog.Logger
}

// DefaultOptions returns the default loader options.
func DefaultOptions() Options {
	return Options{
		BatchSize: DefaultBatchSize,
		Existence: ExistencePerRecord,
		KeyChunk:  defaultKeyChunk,
	}
}

// Option is a function that configures the loader.
type Option func(*Options)

// WithBatchSize sets the flush interval in records.
func WithBatchSize(n int) Option {
	return func(o *Options) {
		o.BatchSize = n
	}
}

// WithExistence sets the existence check strategy.
func WithExistence(mode ExistenceMode) Option {
	return func(o *Options) {
		o.Existence = mode
	}
}

// WithKeyChunk sets the maximum IN list length for bulk existence checks.
func WithKeyChunk(n int) Option {
	return func(o *Options) {
		o.KeyChunk = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
