// Package sqlite implements SQLite database adapter.
package sqlite

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/satishbabariya/batchload/internal/adapters/database"
)

// SQLiteAdapter implements the database.Adapter interface for SQLite.
type SQLiteAdapter struct {
	*database.SQLAdapter
}

// NewSQLiteAdapter creates a new SQLite adapter. The URL is a file path or
// a "file:" URI; a leading "sqlite://" is stripped.
func NewSQLiteAdapter(config database.Config) (*SQLiteAdapter, error) {
	config.URL = DSN(config.URL)
	return &SQLiteAdapter{
		SQLAdapter: database.NewSQLAdapter("sqlite3", database.SQLite, "SELECT sqlite_version()", translateError, config),
	}, nil
}

// DSN normalizes a sqlite URL into a go-sqlite3 data source name.
func DSN(url string) string {
	for _, prefix := range []string{"sqlite3://", "sqlite://"} {
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	return url
}

func translateError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
		return database.MarkDuplicateKey(err)
	}
	return err
}

// Ensure SQLiteAdapter implements Adapter interface.
var _ database.Adapter = (*SQLiteAdapter)(nil)
