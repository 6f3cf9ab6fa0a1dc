package database

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes of a load run.
var (
	// ErrConnection indicates a session could not be acquired.
	ErrConnection = errors.New("batchload: connection error")

	// ErrQuery indicates a single statement failed.
	ErrQuery = errors.New("batchload: query error")

	// ErrParse indicates a source field could not be converted.
	ErrParse = errors.New("batchload: parse error")

	// ErrDuplicateKey indicates a unique or primary key violation.
	ErrDuplicateKey = errors.New("batchload: duplicate key")

	// ErrNotConnected is returned when an adapter is used before Connect.
	ErrNotConnected = errors.New("batchload: database not connected")

	// ErrNoTransaction is returned by Commit or Rollback without Begin.
	ErrNoTransaction = errors.New("batchload: no transaction in progress")

	// ErrTransactionOpen is returned by Begin when a transaction is already open.
	ErrTransactionOpen = errors.New("batchload: transaction already in progress")
)

// ConnectionError reports a failure to reach the database or acquire a
// session. It is fatal for the run.
type ConnectionError struct {
	Provider string
	Cause    error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is matches ErrConnection.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// QueryError reports a failed statement.
type QueryError struct {
	// Op names the step that failed, e.g. "exists", "insert batch".
	Op string

	// Table is the target table.
	Table string

	// SQL is the statement text.
	SQL string

	Cause error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Table, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is matches ErrQuery.
func (e *QueryError) Is(target error) bool {
	return target == ErrQuery
}

// NewQueryError wraps cause as a QueryError.
func NewQueryError(op, table, query string, cause error) *QueryError {
	return &QueryError{Op: op, Table: table, SQL: query, Cause: cause}
}

// IsConnection reports whether err is a connection failure.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsQuery reports whether err is a statement failure.
func IsQuery(err error) bool {
	return errors.Is(err, ErrQuery)
}

// IsParse reports whether err is a source conversion failure.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// duplicateKeyError keeps the driver error in the chain while matching
// ErrDuplicateKey.
type duplicateKeyError struct {
	cause error
}

func (e *duplicateKeyError) Error() string        { return e.cause.Error() }
func (e *duplicateKeyError) Unwrap() error        { return e.cause }
func (e *duplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// MarkDuplicateKey wraps a driver error so that IsDuplicateKey matches it.
func MarkDuplicateKey(err error) error {
	if err == nil {
		return nil
	}
	return &duplicateKeyError{cause: err}
}
