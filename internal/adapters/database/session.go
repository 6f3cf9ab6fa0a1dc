package database

import (
	"context"
	"database/sql"
)

// connSession implements Session over a pinned *sql.Conn.
type connSession struct {
	conn      *sql.Conn
	tx        *sql.Tx
	dialect   SQLDialect
	translate ErrorTranslator
}

func newConnSession(conn *sql.Conn, dialect SQLDialect, translate ErrorTranslator) *connSession {
	return &connSession{conn: conn, dialect: dialect, translate: translate}
}

func (s *connSession) Begin(ctx context.Context) error {
	if s.tx != nil {
		return ErrTransactionOpen
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return s.translate(err)
	}
	s.tx = tx
	return nil
}

func (s *connSession) Commit() error {
	if s.tx == nil {
		return ErrNoTransaction
	}
	tx := s.tx
	s.tx = nil
	return s.translate(tx.Commit())
}

func (s *connSession) Rollback() error {
	if s.tx == nil {
		return ErrNoTransaction
	}
	tx := s.tx
	s.tx = nil
	return tx.Rollback()
}

func (s *connSession) AutoCommit() bool {
	return s.tx == nil
}

func (s *connSession) Prepare(ctx context.Context, query string) (Statement, error) {
	var (
		stmt *sql.Stmt
		err  error
	)
	if s.tx != nil {
		stmt, err = s.tx.PrepareContext(ctx, query)
	} else {
		stmt, err = s.conn.PrepareContext(ctx, query)
	}
	if err != nil {
		return nil, s.translate(err)
	}
	return &sessionStmt{stmt: stmt, translate: s.translate}, nil
}

func (s *connSession) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res sql.Result
		err error
	)
	if s.tx != nil {
		res, err = s.tx.ExecContext(ctx, query, args...)
	} else {
		res, err = s.conn.ExecContext(ctx, query, args...)
	}
	return res, s.translate(err)
}

func (s *connSession) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if s.tx != nil {
		rows, err = s.tx.QueryContext(ctx, query, args...)
	} else {
		rows, err = s.conn.QueryContext(ctx, query, args...)
	}
	return rows, s.translate(err)
}

func (s *connSession) QueryRow(ctx context.Context, query string, args ...any) Row {
	if s.tx != nil {
		return s.tx.QueryRowContext(ctx, query, args...)
	}
	return s.conn.QueryRowContext(ctx, query, args...)
}

func (s *connSession) Dialect() SQLDialect {
	return s.dialect
}

func (s *connSession) Close() error {
	if s.tx != nil {
		_ = s.Rollback()
	}
	return s.conn.Close()
}

type sessionStmt struct {
	stmt      *sql.Stmt
	translate ErrorTranslator
}

func (s *sessionStmt) Exec(ctx context.Context, args ...any) (sql.Result, error) {
	res, err := s.stmt.ExecContext(ctx, args...)
	return res, s.translate(err)
}

func (s *sessionStmt) Close() error {
	return s.stmt.Close()
}

var _ Session = (*connSession)(nil)
