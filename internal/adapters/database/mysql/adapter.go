// Package mysql implements MySQL database adapter.
package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/satishbabariya/batchload/internal/adapters/database"
)

// Server error numbers classified by the adapter.
const (
	erDupEntry = 1062
)

// MySQLAdapter implements the database.Adapter interface for MySQL.
type MySQLAdapter struct {
	*database.SQLAdapter
}

// NewMySQLAdapter creates a new MySQL adapter. The DSN is rewritten by DSN.
func NewMySQLAdapter(config database.Config) (*MySQLAdapter, error) {
	dsn, err := DSN(config.URL)
	if err != nil {
		return nil, &database.ConnectionError{Provider: string(database.MySQL), Cause: err}
	}
	config.URL = dsn
	return &MySQLAdapter{
		SQLAdapter: database.NewSQLAdapter("mysql", database.MySQL, "SELECT VERSION()", translateError, config),
	}, nil
}

// DSN validates url and turns on parseTime, so DATE and DATETIME columns
// scan into time.Time.
func DSN(url string) (string, error) {
	cfg, err := mysql.ParseDSN(url)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func translateError(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == erDupEntry {
		return database.MarkDuplicateKey(err)
	}
	return err
}

// Ensure MySQLAdapter implements Adapter interface.
var _ database.Adapter = (*MySQLAdapter)(nil)
