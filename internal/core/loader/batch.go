package loader

import (
	"context"
	"fmt"

	"github.com/satishbabariya/batchload/internal/adapters/database"
	"github.com/satishbabariya/batchload/internal/core/sqlgen"
)

// OpKind is the statement kind of a queued operation.
type OpKind int

const (
	// OpInsert queues an INSERT.
	OpInsert OpKind = iota
	// OpUpdate queues an UPDATE.
	OpUpdate
)

func (k OpKind) String() string {
	if k == OpUpdate {
		return "update"
	}
	return "insert"
}

// queue is an ordered group of pending operations of a single kind.
type queue[R any] struct {
	kind    OpKind
	sql     string
	stmt    database.Statement
	bind    func(R) []any
	key     func(R) any
	pending []R
}

func (q *queue[R]) add(r R) {
	q.pending = append(q.pending, r)
}

// execute runs every pending operation in order and empties the queue. It
// returns the number of operations applied before any failure.
func (q *queue[R]) execute(ctx context.Context, table string) (int, error) {
	for i, r := range q.pending {
		if _, err := q.stmt.Exec(ctx, q.bind(r)...); err != nil {
			q.pending = q.pending[:0]
			return i, database.NewQueryError(q.kind.String()+" batch", table, q.sql, fmt.Errorf("key %v: %w", q.key(r), err))
		}
	}
	n := len(q.pending)
	q.pending = q.pending[:0]
	return n, nil
}

// batcher holds the insert and update queues for one load. Statements are
// prepared once on the session's transaction and reused for every flush.
type batcher[R any] struct {
	table   string
	inserts *queue[R]
	updates *queue[R]
}

type flushStats struct {
	inserted int
	updated  int
	batches  int
}

func newBatcher[R any](ctx context.Context, sess database.Session, gen *sqlgen.Generator, m Mapping[R]) (*batcher[R], error) {
	insertSQL := gen.Insert(m.Table, m.insertColumns())
	insertStmt, err := sess.Prepare(ctx, insertSQL)
	if err != nil {
		return nil, database.NewQueryError("prepare insert", m.Table, insertSQL, err)
	}

	updateSQL := gen.Update(m.Table, m.Columns, m.Key)
	updateStmt, err := sess.Prepare(ctx, updateSQL)
	if err != nil {
		insertStmt.Close()
		return nil, database.NewQueryError("prepare update", m.Table, updateSQL, err)
	}

	return &batcher[R]{
		table:   m.Table,
		inserts: &queue[R]{kind: OpInsert, sql: insertSQL, stmt: insertStmt, bind: m.insertArgs, key: m.KeyOf},
		updates: &queue[R]{kind: OpUpdate, sql: updateSQL, stmt: updateStmt, bind: m.updateArgs, key: m.KeyOf},
	}, nil
}

func (b *batcher[R]) queueInsert(r R) { b.inserts.add(r) }
func (b *batcher[R]) queueUpdate(r R) { b.updates.add(r) }

// flush executes inserts before updates so that an update queued for a key
// inserted earlier in the same window finds its row.
func (b *batcher[R]) flush(ctx context.Context) (flushStats, error) {
	var stats flushStats

	for _, q := range []*queue[R]{b.inserts, b.updates} {
		if len(q.pending) == 0 {
			continue
		}
		n, err := q.execute(ctx, b.table)
		if q.kind == OpInsert {
			stats.inserted += n
		} else {
			stats.updated += n
		}
		if err != nil {
			return stats, err
		}
		stats.batches++
	}
	return stats, nil
}

func (b *batcher[R]) close() {
	b.inserts.stmt.Close()
	b.updates.stmt.Close()
}
