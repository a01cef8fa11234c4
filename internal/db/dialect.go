package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect is the SQL flavour behind a *sql.DB.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite3, DriverSQLite:
		return SQLite, nil
	case DriverPostgres:
		return Postgres, nil
	default:
		return SQLite, fmt.Errorf("unsupported database driver %q (want %s, %s or %s)",
			driver, DriverSQLite3, DriverSQLite, DriverPostgres)
	}
}

// Rebind rewrites ? placeholders to $1, $2, ... for Postgres.
// Queries are written once with ? and rebound at the call site.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// tableExistsSQL returns a query counting tables with the given name.
func (d Dialect) tableExistsSQL() string {
	if d == Postgres {
		return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1"
	}
	return "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?"
}
