// Package factory selects a database adapter by provider name.
package factory

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/batchload/internal/adapters/database"
	"github.com/satishbabariya/batchload/internal/adapters/database/mysql"
	"github.com/satishbabariya/batchload/internal/adapters/database/postgres"
	"github.com/satishbabariya/batchload/internal/adapters/database/sqlite"
)

// NewAdapter creates an unconnected adapter for cfg.Provider.
func NewAdapter(cfg database.Config) (database.Adapter, error) {
	switch NormalizeProvider(cfg.Provider) {
	case database.PostgreSQL:
		return postgres.NewPostgresAdapter(cfg)
	case database.MySQL:
		return mysql.NewMySQLAdapter(cfg)
	case database.SQLite:
		return sqlite.NewSQLiteAdapter(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// NormalizeProvider maps provider aliases onto a dialect.
func NormalizeProvider(provider string) database.SQLDialect {
	switch strings.ToLower(provider) {
	case "postgresql", "postgres":
		return database.PostgreSQL
	case "mysql", "mariadb":
		return database.MySQL
	case "sqlite", "sqlite3":
		return database.SQLite
	default:
		return ""
	}
}

// DetectProvider guesses the provider from a connection string.
func DetectProvider(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgresql"
	case strings.Contains(url, "@tcp("), strings.Contains(url, "@unix("):
		return "mysql"
	case strings.HasPrefix(url, "sqlite"), strings.HasPrefix(url, "file:"), strings.HasSuffix(url, ".db"):
		return "sqlite"
	default:
		return ""
	}
}
