package database

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/go-version"
)

// Oldest server releases the loader's statements are exercised against.
var minimumVersions = map[SQLDialect]string{
	MySQL:      "5.7",
	PostgreSQL: "10",
	SQLite:     "3.8.3",
}

var leadingVersion = regexp.MustCompile(`\d+(\.\d+)*`)

// ParseServerVersion extracts the release number from a raw server version
// string such as "8.0.36-0ubuntu0.22.04.1" or "16.2 (Debian 16.2-1.pgdg120+2)".
func ParseServerVersion(raw string) (*version.Version, error) {
	m := leadingVersion.FindString(raw)
	if m == "" {
		return nil, fmt.Errorf("no version number in %q", raw)
	}
	return version.NewVersion(m)
}

// CheckServerVersion returns the parsed version and whether it meets the
// minimum supported release for dialect.
func CheckServerVersion(dialect SQLDialect, raw string) (*version.Version, bool, error) {
	v, err := ParseServerVersion(raw)
	if err != nil {
		return nil, false, err
	}
	minRaw, ok := minimumVersions[dialect]
	if !ok {
		return v, true, nil
	}
	minimum := version.Must(version.NewVersion(minRaw))
	return v, v.GreaterThanOrEqual(minimum), nil
}

// MinimumVersion returns the minimum supported server release for dialect.
func MinimumVersion(dialect SQLDialect) string {
	return minimumVersions[dialect]
}
