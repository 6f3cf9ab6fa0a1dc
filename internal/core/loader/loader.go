// Package loader applies typed records to a table as a batched upsert.
//
// Each record is classified by whether its key already exists in the
// target table and queued as an insert or an update. Both queues are
// flushed every BatchSize processed records and once more when the input
// is exhausted. The whole load runs in one transaction: it commits once on
// success and rolls back on the first error, so a failed run leaves the
// table unchanged.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/satishbabariya/batchload/internal/adapters/database"
	"github.com/satishbabariya/batchload/internal/core/sqlgen"
)

// ErrInvalidBatchSize is returned when BatchSize is not positive.
var ErrInvalidBatchSize = errors.New("loader: batch size must be a positive integer")

// Result summarizes one load.
type Result struct {
	// Records is the number of records processed.
	Records int

	// Inserted and Updated count the rows written by each statement kind.
	Inserted int
	Updated  int

	// Flushes counts flush points, including the final one.
	Flushes int

	// Batches counts non-empty queue executions.
	Batches int

	Duration time.Duration
}

// Loader loads records of type R through its Mapping.
type Loader[R any] struct {
	mapping Mapping[R]
	opts    Options
	log     *slog.Logger
}

// New creates a loader for mapping.
func New[R any](mapping Mapping[R], opts ...Option) (*Loader[R], error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, o.BatchSize)
	}
	if o.KeyChunk <= 0 {
		o.KeyChunk = defaultKeyChunk
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader[R]{
		mapping: mapping,
		opts:    o,
		log:     logger.With("table", mapping.Table),
	}, nil
}

// Options returns the effective options.
func (l *Loader[R]) Options() Options {
	return l.opts
}

// LoadWith acquires a session from adapter, loads records, and releases
// the session.
func (l *Loader[R]) LoadWith(ctx context.Context, adapter database.Adapter, records []R) (Result, error) {
	sess, err := adapter.Session(ctx)
	if err != nil {
		var connErr *database.ConnectionError
		if !errors.As(err, &connErr) {
			err = &database.ConnectionError{Provider: string(adapter.GetDialect()), Cause: err}
		}
		return Result{}, err
	}
	defer sess.Close()

	return l.Load(ctx, sess, records)
}

// Load applies records within a single transaction on sess. Autocommit is
// switched off for the duration of the load and is back on when Load
// returns, whether it succeeds or fails.
func (l *Loader[R]) Load(ctx context.Context, sess database.Session, records []R) (res Result, err error) {
	start := time.Now()

	if err := sess.Begin(ctx); err != nil {
		return res, database.NewQueryError("begin", l.mapping.Table, "", err)
	}
	defer func() {
		if sess.AutoCommit() {
			return
		}
		if rbErr := sess.Rollback(); rbErr != nil {
			l.log.Warn("rollback failed", "error", rbErr)
		}
		if err != nil {
			l.log.Error("load rolled back", "processed", res.Records, "error", err)
		}
	}()

	res, err = l.run(ctx, sess, records)
	if err != nil {
		return res, err
	}

	if err := sess.Commit(); err != nil {
		return res, database.NewQueryError("commit", l.mapping.Table, "", err)
	}

	res.Duration = time.Since(start)
	l.log.Info("load committed",
		"records", res.Records,
		"inserted", res.Inserted,
		"updated", res.Updated,
		"flushes", res.Flushes,
		"duration", res.Duration)
	return res, nil
}

func (l *Loader[R]) run(ctx context.Context, sess database.Session, records []R) (Result, error) {
	var res Result
	gen := sqlgen.NewGenerator(sess.Dialect())

	check, err := l.existenceCheck(ctx, sess, gen, records)
	if err != nil {
		return res, err
	}

	b, err := newBatcher(ctx, sess, gen, l.mapping)
	if err != nil {
		return res, err
	}
	defer b.close()

	// Keys queued for insert but possibly not yet flushed.
	queued := make(map[string]struct{})

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		key := l.mapping.KeyOf(r)
		nk := normalizeKey(key)

		_, seen := queued[nk]
		exists := seen
		if !seen {
			exists, err = check(ctx, key, nk)
			if err != nil {
				return res, err
			}
		}

		if exists {
			b.queueUpdate(r)
		} else {
			b.queueInsert(r)
			queued[nk] = struct{}{}
		}
		res.Records++

		if res.Records%l.opts.BatchSize == 0 {
			if err := l.flush(ctx, b, &res); err != nil {
				return res, err
			}
		}
	}

	if err := l.flush(ctx, b, &res); err != nil {
		return res, err
	}
	return res, nil
}

func (l *Loader[R]) flush(ctx context.Context, b *batcher[R], res *Result) error {
	stats, err := b.flush(ctx)
	res.Flushes++
	res.Inserted += stats.inserted
	res.Updated += stats.updated
	res.Batches += stats.batches
	if err != nil {
		return err
	}
	l.log.Debug("flushed batch",
		"flush", res.Flushes,
		"inserts", stats.inserted,
		"updates", stats.updated)
	return nil
}

// existsFunc reports whether key is already present in the table.
type existsFunc func(ctx context.Context, key any, normalized string) (bool, error)

func (l *Loader[R]) existenceCheck(ctx context.Context, sess database.Session, gen *sqlgen.Generator, records []R) (existsFunc, error) {
	if l.opts.Existence == ExistenceBulk {
		existing, err := l.fetchExistingKeys(ctx, sess, gen, records)
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, _ any, nk string) (bool, error) {
			_, ok := existing[nk]
			return ok, nil
		}, nil
	}

	countSQL := gen.Count(l.mapping.Table, l.mapping.Key)
	return func(ctx context.Context, key any, _ string) (bool, error) {
		var n int64
		if err := sess.QueryRow(ctx, countSQL, key).Scan(&n); err != nil {
			return false, database.NewQueryError("exists", l.mapping.Table, countSQL, fmt.Errorf("key %v: %w", key, err))
		}
		return n > 0, nil
	}, nil
}

// fetchExistingKeys reads which of the records' keys are already stored,
// querying at most KeyChunk keys per round trip.
func (l *Loader[R]) fetchExistingKeys(ctx context.Context, sess database.Session, gen *sqlgen.Generator, records []R) (map[string]struct{}, error) {
	keys := make([]any, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		k := l.mapping.KeyOf(r)
		nk := normalizeKey(k)
		if _, dup := seen[nk]; dup {
			continue
		}
		seen[nk] = struct{}{}
		keys = append(keys, k)
	}

	existing := make(map[string]struct{})
	for start := 0; start < len(keys); start += l.opts.KeyChunk {
		chunk := keys[start:min(start+l.opts.KeyChunk, len(keys))]
		query := gen.SelectKeysIn(l.mapping.Table, l.mapping.Key, len(chunk))

		if err := scanKeys(ctx, sess, query, chunk, existing); err != nil {
			return nil, database.NewQueryError("exists", l.mapping.Table, query, err)
		}
	}

	l.log.Debug("prefetched existing keys", "keys", len(keys), "existing", len(existing))
	return existing, nil
}

func scanKeys(ctx context.Context, q database.Queryer, query string, args []any, into map[string]struct{}) error {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var k any
		if err := rows.Scan(&k); err != nil {
			return err
		}
		into[normalizeKey(k)] = struct{}{}
	}
	return rows.Err()
}
