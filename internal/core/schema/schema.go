// Package schema creates and resets the tables of the employees sample
// schema.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/satishbabariya/batchload/internal/adapters/database"
	"github.com/satishbabariya/batchload/internal/core/sqlgen"
)

// Column is a column definition.
type Column struct {
	Name    string
	Type    string
	NotNull bool
}

// ForeignKey references the primary key of another table.
type ForeignKey struct {
	Column string
	Table  string
	Ref    string
}

// Table is a table definition.
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  []string
	Unique      []string
	ForeignKeys []ForeignKey
}

// Tables lists the schema in creation order. Dependents come after the
// tables they reference.
var Tables = []Table{
	{
		Name: "employees",
		Columns: []Column{
			{Name: "emp_no", Type: "INT", NotNull: true},
			{Name: "birth_date", Type: "DATE", NotNull: true},
			{Name: "first_name", Type: "VARCHAR(14)", NotNull: true},
			{Name: "last_name", Type: "VARCHAR(16)", NotNull: true},
			{Name: "gender", Type: "CHAR(1)", NotNull: true},
			{Name: "hire_date", Type: "DATE", NotNull: true},
		},
		PrimaryKey: []string{"emp_no"},
	},
	{
		Name: "departments",
		Columns: []Column{
			{Name: "dept_no", Type: "CHAR(4)", NotNull: true},
			{Name: "dept_name", Type: "VARCHAR(40)", NotNull: true},
		},
		PrimaryKey: []string{"dept_no"},
		Unique:     []string{"dept_name"},
	},
	{
		Name: "dept_emp",
		Columns: []Column{
			{Name: "emp_no", Type: "INT", NotNull: true},
			{Name: "dept_no", Type: "CHAR(4)", NotNull: true},
			{Name: "from_date", Type: "DATE", NotNull: true},
			{Name: "to_date", Type: "DATE", NotNull: true},
		},
		PrimaryKey: []string{"emp_no", "dept_no"},
		ForeignKeys: []ForeignKey{
			{Column: "emp_no", Table: "employees", Ref: "emp_no"},
			{Column: "dept_no", Table: "departments", Ref: "dept_no"},
		},
	},
	{
		Name: "dept_manager",
		Columns: []Column{
			{Name: "emp_no", Type: "INT", NotNull: true},
			{Name: "dept_no", Type: "CHAR(4)", NotNull: true},
			{Name: "from_date", Type: "DATE", NotNull: true},
			{Name: "to_date", Type: "DATE", NotNull: true},
		},
		PrimaryKey: []string{"emp_no", "dept_no"},
		ForeignKeys: []ForeignKey{
			{Column: "emp_no", Table: "employees", Ref: "emp_no"},
			{Column: "dept_no", Table: "departments", Ref: "dept_no"},
		},
	},
}

// CreateTableSQL renders CREATE TABLE IF NOT EXISTS for t.
func CreateTableSQL(gen *sqlgen.Generator, t Table) string {
	var defs []string
	for _, c := range t.Columns {
		def := gen.Quote(c.Name) + " " + c.Type
		if c.NotNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}

	quoteList := func(names []string) string {
		q := make([]string, len(names))
		for i, n := range names {
			q[i] = gen.Quote(n)
		}
		return strings.Join(q, ", ")
	}

	if len(t.PrimaryKey) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", quoteList(t.PrimaryKey)))
	}
	for _, u := range t.Unique {
		defs = append(defs, fmt.Sprintf("UNIQUE (%s)", gen.Quote(u)))
	}
	for _, fk := range t.ForeignKeys {
		defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE CASCADE",
			gen.Quote(fk.Column), gen.Quote(fk.Table), gen.Quote(fk.Ref)))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", gen.Quote(t.Name), strings.Join(defs, ",\n  "))
}

// Executor runs DDL statements.
type Executor interface {
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Init creates any missing tables.
func Init(ctx context.Context, exec Executor, dialect database.SQLDialect) error {
	gen := sqlgen.NewGenerator(dialect)
	for _, t := range Tables {
		if _, err := exec.Execute(ctx, CreateTableSQL(gen, t)); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
		slog.Debug("table ready", "table", t.Name)
	}
	return nil
}

// Drop drops every table of the schema, dependents first.
func Drop(ctx context.Context, exec Executor, dialect database.SQLDialect) error {
	gen := sqlgen.NewGenerator(dialect)
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := exec.Execute(ctx, gen.DropTable(Tables[i].Name)); err != nil {
			return fmt.Errorf("drop table %s: %w", Tables[i].Name, err)
		}
	}
	return nil
}

// Reset drops and recreates the schema.
func Reset(ctx context.Context, exec Executor, dialect database.SQLDialect) error {
	if err := Drop(ctx, exec, dialect); err != nil {
		return err
	}
	return Init(ctx, exec, dialect)
}
