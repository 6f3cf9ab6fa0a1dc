// Package postgres implements PostgreSQL database adapter.
package postgres

import (
	"errors"

	"github.com/lib/pq"
	"github.com/satishbabariya/batchload/internal/adapters/database"
)

// uniqueViolation is SQLSTATE 23505.
const uniqueViolation = pq.ErrorCode("23505")

// PostgresAdapter implements the database.Adapter interface for PostgreSQL.
type PostgresAdapter struct {
	*database.SQLAdapter
}

// NewPostgresAdapter creates a new PostgreSQL adapter.
func NewPostgresAdapter(config database.Config) (*PostgresAdapter, error) {
	return &PostgresAdapter{
		SQLAdapter: database.NewSQLAdapter("postgres", database.PostgreSQL, "SHOW server_version", translateError, config),
	}, nil
}

func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return database.MarkDuplicateKey(err)
	}
	return err
}

// Ensure PostgresAdapter implements Adapter interface.
var _ database.Adapter = (*PostgresAdapter)(nil)
