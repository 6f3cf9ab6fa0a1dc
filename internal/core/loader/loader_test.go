package loader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/satishbabariya/batchload/internal/adapters/database"
	"github.com/satishbabariya/batchload/internal/adapters/database/sqlite"
	"github.com/satishbabariya/batchload/internal/core/schema"
	"github.com/satishbabariya/batchload/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	ID   int
	Name *string
}

func name(s string) *string { return &s }

var personMapping = Mapping[person]{
	Table:    "people",
	Key:      "id",
	Columns:  []string{"name"},
	KeyOf:    func(p person) any { return p.ID },
	ValuesOf: func(p person) []any { return []any{p.Name} },
}

func newTestAdapter(t *testing.T) *sqlite.SQLiteAdapter {
	t.Helper()
	ctx := context.Background()

	adapter, err := sqlite.NewSQLiteAdapter(database.Config{
		URL: filepath.Join(t.TempDir(), "load.db"),
	})
	require.NoError(t, err)
	require.NoError(t, adapter.Connect(ctx))
	t.Cleanup(func() { adapter.Disconnect(ctx) })

	require.NoError(t, schema.Init(ctx, adapter, database.SQLite))
	_, err = adapter.Execute(ctx, `CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	return adapter
}

func newSession(t *testing.T, adapter database.Adapter) database.Session {
	t.Helper()
	sess, err := adapter.Session(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return sess
}

func people(t *testing.T, adapter database.Adapter) map[int]string {
	t.Helper()
	rows, err := adapter.Query(context.Background(), `SELECT id, name FROM people ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	got := map[int]string{}
	for rows.Next() {
		var id int
		var n string
		require.NoError(t, rows.Scan(&id, &n))
		got[id] = n
	}
	require.NoError(t, rows.Err())
	return got
}

func departments(n int) []model.Department {
	out := make([]model.Department, n)
	for i := range out {
		out[i] = model.Department{
			DeptNo:   "d" + string(rune('a'+i/26)) + string(rune('a'+i%26)) + "x",
			DeptName: "Department " + string(rune('A'+i%26)) + string(rune('a'+i/26)),
		}
	}
	return out
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(personMapping, WithBatchSize(0))
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = New(personMapping, WithBatchSize(-3))
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = New(Mapping[person]{Table: "people"})
	assert.Error(t, err)

	l, err := New(personMapping)
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, l.Options().BatchSize)
	assert.Equal(t, ExistencePerRecord, l.Options().Existence)
}

func TestLoadInsertThenUpdate(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	sess := newSession(t, adapter)

	l, err := New(personMapping)
	require.NoError(t, err)

	res, err := l.Load(ctx, sess, []person{{ID: 1, Name: name("Ana")}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, map[int]string{1: "Ana"}, people(t, adapter))

	res, err = l.Load(ctx, sess, []person{{ID: 1, Name: name("Ana2")}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, map[int]string{1: "Ana2"}, people(t, adapter))
	assert.True(t, sess.AutoCommit())
}

func TestLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()

	for _, mode := range []ExistenceMode{ExistencePerRecord, ExistenceBulk} {
		t.Run(mode.String(), func(t *testing.T) {
			adapter := newTestAdapter(t)
			_, err := adapter.Execute(ctx, `INSERT INTO people (id, name) VALUES (2, 'old'), (9, 'untouched')`)
			require.NoError(t, err)

			l, err := New(personMapping, WithExistence(mode), WithKeyChunk(2))
			require.NoError(t, err)

			input := []person{
				{ID: 1, Name: name("a")},
				{ID: 2, Name: name("b")},
				{ID: 3, Name: name("c")},
				{ID: 4, Name: name("d")},
				{ID: 5, Name: name("e")},
				{ID: 6, Name: name("f")},
			}

			first, err := l.LoadWith(ctx, adapter, input)
			require.NoError(t, err)
			assert.Equal(t, 5, first.Inserted)
			assert.Equal(t, 1, first.Updated)
			once := people(t, adapter)

			second, err := l.LoadWith(ctx, adapter, input)
			require.NoError(t, err)
			assert.Equal(t, 0, second.Inserted)
			assert.Equal(t, 6, second.Updated)
			assert.Equal(t, once, people(t, adapter))

			assert.Equal(t, map[int]string{1: "a", 2: "b", 3: "c", 4: "d", 5: "e", 6: "f", 9: "untouched"}, once)
		})
	}
}

func TestFlushBoundaries(t *testing.T) {
	ctx := context.Background()
	const n = 5

	tests := []struct {
		records int
		flushes int
		batches int
	}{
		{records: 0, flushes: 1, batches: 0},
		{records: n - 1, flushes: 1, batches: 1},
		{records: n, flushes: 2, batches: 1},
		{records: n + 1, flushes: 2, batches: 2},
		{records: 2 * n, flushes: 3, batches: 2},
		{records: 2*n + 3, flushes: 3, batches: 3},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			adapter := newTestAdapter(t)
			l, err := New(DepartmentMapping, WithBatchSize(n))
			require.NoError(t, err)

			res, err := l.LoadWith(ctx, adapter, departments(tt.records))
			require.NoError(t, err)
			assert.Equal(t, tt.records, res.Records)
			assert.Equal(t, tt.records, res.Inserted)
			assert.Equal(t, tt.flushes, res.Flushes, "flush points for %d records", tt.records)
			assert.Equal(t, tt.batches, res.Batches, "queue executions for %d records", tt.records)
		})
	}
}

func TestFlushCountsMixedQueuesOnce(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	_, err := adapter.Execute(ctx, `INSERT INTO people (id, name) VALUES (2, 'x'), (4, 'y')`)
	require.NoError(t, err)

	l, err := New(personMapping, WithBatchSize(2))
	require.NoError(t, err)

	// 1 insert, 2 update, 3 insert, 4 update: both queues grow, flush
	// still fires every second record.
	res, err := l.LoadWith(ctx, adapter, []person{
		{ID: 1, Name: name("a")},
		{ID: 2, Name: name("b")},
		{ID: 3, Name: name("c")},
		{ID: 4, Name: name("d")},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Flushes)
	assert.Equal(t, 4, res.Batches)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 2, res.Updated)
}

func TestDuplicateKeysInOneInput(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	for _, mode := range []ExistenceMode{ExistencePerRecord, ExistenceBulk} {
		l, err := New(personMapping, WithExistence(mode), WithBatchSize(10))
		require.NoError(t, err)

		res, err := l.LoadWith(ctx, adapter, []person{
			{ID: 7, Name: name("first")},
			{ID: 7, Name: name("second")},
		})
		require.NoError(t, err, mode.String())
		assert.Equal(t, map[int]string{7: "second"}, people(t, adapter))

		_, err = adapter.Execute(ctx, `DELETE FROM people`)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Inserted)
		assert.Equal(t, 1, res.Updated)
	}
}

func TestFailedBatchRollsBackWholeLoad(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	_, err := adapter.Execute(ctx, `INSERT INTO people (id, name) VALUES (1, 'kept')`)
	require.NoError(t, err)

	sess := newSession(t, adapter)
	l, err := New(personMapping, WithBatchSize(2))
	require.NoError(t, err)

	// The first flush succeeds; the final flush violates NOT NULL.
	res, err := l.Load(ctx, sess, []person{
		{ID: 1, Name: name("changed")},
		{ID: 2, Name: name("new")},
		{ID: 3, Name: nil},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrQuery)
	assert.True(t, database.IsQuery(err))

	var qErr *database.QueryError
	require.True(t, errors.As(err, &qErr))
	assert.Equal(t, "insert batch", qErr.Op)
	assert.Equal(t, "people", qErr.Table)

	assert.Equal(t, 2, res.Flushes)
	assert.True(t, sess.AutoCommit(), "autocommit must be restored after a failed load")
	assert.Equal(t, map[int]string{1: "kept"}, people(t, adapter))

	// The session is still usable.
	res, err = l.Load(ctx, sess, []person{{ID: 3, Name: name("fixed")}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.True(t, sess.AutoCommit())
}

func TestMissingTableIsQueryError(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	sess := newSession(t, adapter)

	missing := personMapping
	missing.Table = "nobody"

	for _, mode := range []ExistenceMode{ExistencePerRecord, ExistenceBulk} {
		l, err := New(missing, WithExistence(mode))
		require.NoError(t, err)

		_, err = l.Load(ctx, sess, []person{{ID: 1, Name: name("a")}})
		assert.ErrorIs(t, err, database.ErrQuery, mode.String())
		assert.True(t, sess.AutoCommit(), mode.String())
	}
}

func TestCancelledContextRollsBack(t *testing.T) {
	adapter := newTestAdapter(t)
	sess := newSession(t, adapter)

	l, err := New(personMapping)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.Load(ctx, sess, []person{{ID: 1, Name: name("a")}})
	require.Error(t, err)
	assert.True(t, sess.AutoCommit())
	assert.Empty(t, people(t, adapter))
}

func TestLoadWithDisconnectedAdapter(t *testing.T) {
	adapter, err := sqlite.NewSQLiteAdapter(database.Config{URL: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)

	l, err := New(personMapping)
	require.NoError(t, err)

	_, err = l.LoadWith(context.Background(), adapter, []person{{ID: 1, Name: name("a")}})
	assert.ErrorIs(t, err, database.ErrConnection)
	assert.True(t, database.IsConnection(err))
}

func TestLoadEmployees(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	input := []model.Employee{
		{EmpNo: 10001, FirstName: "Georgi", LastName: "Facello", Gender: "M", HireDate: date(1986, 6, 26), BirthDate: date(1953, 9, 2)},
		{EmpNo: 10002, FirstName: "Bezalel", LastName: "Simmel", Gender: "F", HireDate: date(1985, 11, 21), BirthDate: date(1964, 6, 2)},
	}

	l, err := New(EmployeeMapping, WithExistence(ExistenceBulk))
	require.NoError(t, err)
	_, err = l.LoadWith(ctx, adapter, input)
	require.NoError(t, err)

	input[1].LastName = "Simmel-Koenig"
	res, err := l.LoadWith(ctx, adapter, input[1:])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	var (
		last     string
		hireDate time.Time
	)
	err = adapter.QueryRow(ctx, `SELECT last_name, hire_date FROM employees WHERE emp_no = ?`, 10002).Scan(&last, &hireDate)
	require.NoError(t, err)
	assert.Equal(t, "Simmel-Koenig", last)
	assert.True(t, hireDate.Equal(date(1985, 11, 21)), "hire_date = %v", hireDate)

	var count int
	require.NoError(t, adapter.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestParseExistenceMode(t *testing.T) {
	m, err := ParseExistenceMode("bulk")
	require.NoError(t, err)
	assert.Equal(t, ExistenceBulk, m)

	m, err = ParseExistenceMode("")
	require.NoError(t, err)
	assert.Equal(t, ExistencePerRecord, m)

	_, err = ParseExistenceMode("sometimes")
	assert.Error(t, err)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "42", normalizeKey(42))
	assert.Equal(t, "42", normalizeKey(int64(42)))
	assert.Equal(t, "d001", normalizeKey([]byte("d001")))
	assert.Equal(t, "d001", normalizeKey("d001"))
}
