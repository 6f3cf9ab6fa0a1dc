package schema

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/satishbabariya/batchload/internal/adapters/database"
	"github.com/satishbabariya/batchload/internal/adapters/database/sqlite"
	"github.com/satishbabariya/batchload/internal/core/sqlgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableSQL(t *testing.T) {
	got := CreateTableSQL(sqlgen.NewGenerator(database.MySQL), Tables[1])
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS `departments` (\n"+
		"  `dept_no` CHAR(4) NOT NULL,\n"+
		"  `dept_name` VARCHAR(40) NOT NULL,\n"+
		"  PRIMARY KEY (`dept_no`),\n"+
		"  UNIQUE (`dept_name`)\n"+
		")", got)

	got = CreateTableSQL(sqlgen.NewGenerator(database.PostgreSQL), Tables[2])
	assert.Contains(t, got, `PRIMARY KEY ("emp_no", "dept_no")`)
	assert.Contains(t, got, `FOREIGN KEY ("dept_no") REFERENCES "departments" ("dept_no") ON DELETE CASCADE`)
}

func TestTablesAreOrderedByDependency(t *testing.T) {
	created := map[string]bool{}
	for _, table := range Tables {
		for _, fk := range table.ForeignKeys {
			assert.True(t, created[fk.Table], "%s references %s before it is created", table.Name, fk.Table)
		}
		created[table.Name] = true
	}
}

func TestInitAndReset(t *testing.T) {
	ctx := context.Background()
	adapter, err := sqlite.NewSQLiteAdapter(database.Config{URL: filepath.Join(t.TempDir(), "schema.db")})
	require.NoError(t, err)
	require.NoError(t, adapter.Connect(ctx))
	defer adapter.Disconnect(ctx)

	require.NoError(t, Init(ctx, adapter, database.SQLite))
	require.NoError(t, Init(ctx, adapter, database.SQLite), "Init must be repeatable")

	_, err = adapter.Execute(ctx, `INSERT INTO departments (dept_no, dept_name) VALUES ('d001', 'Marketing')`)
	require.NoError(t, err)

	require.NoError(t, Reset(ctx, adapter, database.SQLite))

	var n int
	require.NoError(t, adapter.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&n))
	assert.Zero(t, n)

	require.NoError(t, Drop(ctx, adapter, database.SQLite))
	_, err = adapter.Execute(ctx, `SELECT 1 FROM employees`)
	assert.Error(t, err)
}
