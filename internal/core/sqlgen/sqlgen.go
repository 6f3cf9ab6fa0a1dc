// Package sqlgen generates the statements used by the loader and reports
// for each supported dialect.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/batchload/internal/adapters/database"
)

// Generator generates SQL for one dialect.
type Generator struct {
	dialect database.SQLDialect
}

// NewGenerator creates a new SQL generator for the given dialect.
func NewGenerator(dialect database.SQLDialect) *Generator {
	return &Generator{dialect: dialect}
}

// Dialect returns the generator's dialect.
func (g *Generator) Dialect() database.SQLDialect {
	return g.dialect
}

// Quote quotes an identifier.
func (g *Generator) Quote(name string) string {
	switch g.dialect {
	case database.MySQL:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	default:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

// Placeholder returns the bind marker for the n-th argument (1-based).
func (g *Generator) Placeholder(n int) string {
	if g.dialect == database.PostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns count comma separated bind markers starting at from.
func (g *Generator) placeholders(from, count int) string {
	marks := make([]string, count)
	for i := range marks {
		marks[i] = g.Placeholder(from + i)
	}
	return strings.Join(marks, ", ")
}

func (g *Generator) quoteAll(names []string) []string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = g.Quote(n)
	}
	return quoted
}

// Count returns SELECT COUNT(*) FROM table WHERE key = ?.
func (g *Generator) Count(table, key string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = %s", g.Quote(table), g.Quote(key), g.Placeholder(1))
}

// Insert returns INSERT INTO table (columns) VALUES (placeholders).
func (g *Generator) Insert(table string, columns []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		g.Quote(table), strings.Join(g.quoteAll(columns), ", "), g.placeholders(1, len(columns)))
}

// Update returns UPDATE table SET col = ?, ... WHERE key = ?. The key is
// bound last.
func (g *Generator) Update(table string, columns []string, key string) string {
	set := make([]string, len(columns))
	for i, col := range columns {
		set[i] = fmt.Sprintf("%s = %s", g.Quote(col), g.Placeholder(i+1))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		g.Quote(table), strings.Join(set, ", "), g.Quote(key), g.Placeholder(len(columns)+1))
}

// SelectKeysIn returns SELECT key FROM table WHERE key IN (n placeholders).
func (g *Generator) SelectKeysIn(table, key string, n int) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (%s)",
		g.Quote(key), g.Quote(table), g.Quote(key), g.placeholders(1, n))
}

// Max returns SELECT MAX(column) FROM table.
func (g *Generator) Max(table, column string) string {
	return fmt.Sprintf("SELECT MAX(%s) FROM %s", g.Quote(column), g.Quote(table))
}

// Select returns SELECT columns FROM table ORDER BY orderBy. An empty
// column list selects *; an empty orderBy omits the clause.
func (g *Generator) Select(table string, columns []string, orderBy string) string {
	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(g.quoteAll(columns), ", ")
	}
	q := fmt.Sprintf("SELECT %s FROM %s", cols, g.Quote(table))
	if orderBy != "" {
		q += " ORDER BY " + g.Quote(orderBy)
	}
	return q
}

// DropTable returns DROP TABLE IF EXISTS table.
func (g *Generator) DropTable(table string) string {
	return "DROP TABLE IF EXISTS " + g.Quote(table)
}
