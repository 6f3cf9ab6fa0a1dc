package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLAdapter implements Adapter on top of database/sql. Provider packages
// embed it and supply the driver name, dialect and error translation.
type SQLAdapter struct {
	db           *sql.DB
	config       Config
	driver       string
	dialect      SQLDialect
	versionQuery string
	translate    ErrorTranslator
}

// NewSQLAdapter creates an adapter for a registered database/sql driver.
func NewSQLAdapter(driver string, dialect SQLDialect, versionQuery string, translate ErrorTranslator, config Config) *SQLAdapter {
	if translate == nil {
		translate = func(err error) error { return err }
	}
	return &SQLAdapter{
		config:       config,
		driver:       driver,
		dialect:      dialect,
		versionQuery: versionQuery,
		translate:    translate,
	}
}

// Connect opens the pool and pings it.
func (a *SQLAdapter) Connect(ctx context.Context) error {
	db, err := sql.Open(a.driver, a.config.URL)
	if err != nil {
		return &ConnectionError{Provider: string(a.dialect), Cause: fmt.Errorf("failed to open database: %w", err)}
	}

	if a.config.MaxConnections > 0 {
		db.SetMaxOpenConns(a.config.MaxConnections)
		db.SetMaxIdleConns(max(a.config.MaxConnections/2, 1))
	}
	if a.config.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(a.config.MaxIdleTime)
	}

	if a.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.ConnectTimeout)
		defer cancel()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return &ConnectionError{Provider: string(a.dialect), Cause: fmt.Errorf("failed to ping database: %w", err)}
	}

	a.db = db
	return nil
}

// Disconnect closes the pool.
func (a *SQLAdapter) Disconnect(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Execute executes a statement without returning rows.
func (a *SQLAdapter) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	res, err := a.db.ExecContext(ctx, query, args...)
	return res, a.translate(err)
}

// Query executes a query that returns rows.
func (a *SQLAdapter) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := a.db.QueryContext(ctx, query, args...)
	return rows, a.translate(err)
}

// QueryRow executes a query that returns a single row.
func (a *SQLAdapter) QueryRow(ctx context.Context, query string, args ...any) Row {
	if a.db == nil {
		return errRow{err: ErrNotConnected}
	}
	return a.db.QueryRowContext(ctx, query, args...)
}

// Session pins one connection from the pool.
func (a *SQLAdapter) Session(ctx context.Context) (Session, error) {
	if a.db == nil {
		return nil, &ConnectionError{Provider: string(a.dialect), Cause: ErrNotConnected}
	}
	conn, err := a.db.Conn(ctx)
	if err != nil {
		return nil, &ConnectionError{Provider: string(a.dialect), Cause: err}
	}
	return newConnSession(conn, a.dialect, a.translate), nil
}

// Ping checks if the database connection is alive.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// ServerVersion runs the provider's version query.
func (a *SQLAdapter) ServerVersion(ctx context.Context) (string, error) {
	if a.db == nil {
		return "", ErrNotConnected
	}
	var v string
	if err := a.db.QueryRowContext(ctx, a.versionQuery).Scan(&v); err != nil {
		return "", fmt.Errorf("server version: %w", err)
	}
	return v, nil
}

// GetDialect returns the SQL dialect.
func (a *SQLAdapter) GetDialect() SQLDialect {
	return a.dialect
}

var _ Adapter = (*SQLAdapter)(nil)
