// Package database defines database adapter interfaces.
package database

import (
	"context"
	"database/sql"
	"time"
)

// Adapter is a connected database handle for one provider.
type Adapter interface {
	// Connect opens the pool and verifies it with a ping.
	Connect(ctx context.Context) error

	// Disconnect closes the pool.
	Disconnect(ctx context.Context) error

	// Execute executes a statement outside of any session.
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// QueryRow executes a query that returns a single row.
	QueryRow(ctx context.Context, query string, args ...any) Row

	// Session pins a single connection for exclusive use by the caller.
	Session(ctx context.Context) (Session, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// ServerVersion returns the raw version string reported by the server.
	ServerVersion(ctx context.Context) (string, error)

	// GetDialect returns the SQL dialect.
	GetDialect() SQLDialect
}

// Queryer is the read side shared by adapters and sessions.
type Queryer interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// Row is the result of QueryRow. *sql.Row satisfies it.
type Row interface {
	Scan(dest ...any) error
	Err() error
}

// errRow is a Row that failed before reaching the database.
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
func (r errRow) Err() error        { return r.err }

// Session is one connection-scoped transaction boundary.
//
// A fresh session is in autocommit mode. Begin switches autocommit off and
// opens a transaction; Commit or Rollback closes it and switches autocommit
// back on. Close releases the connection, rolling back anything still open.
type Session interface {
	Queryer

	// Begin disables autocommit by opening a transaction.
	Begin(ctx context.Context) error

	// Commit commits the open transaction and restores autocommit.
	Commit() error

	// Rollback rolls back the open transaction and restores autocommit.
	Rollback() error

	// AutoCommit reports whether statements are committed as they run.
	AutoCommit() bool

	// Prepare prepares a statement on the open transaction, or on the
	// connection when in autocommit mode.
	Prepare(ctx context.Context, query string) (Statement, error)

	// Execute executes a statement on the open transaction or connection.
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Dialect returns the SQL dialect of the underlying connection.
	Dialect() SQLDialect

	// Close releases the connection back to the pool.
	Close() error
}

// Statement is a prepared statement bound to a session.
type Statement interface {
	// Exec runs the statement once with args.
	Exec(ctx context.Context, args ...any) (sql.Result, error)

	// Close releases the statement.
	Close() error
}

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    time.Duration
	ConnectTimeout time.Duration
}

// ErrorTranslator maps a driver error onto the package's sentinel errors.
// It returns the error unchanged when nothing matches.
type ErrorTranslator func(err error) error
