package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite3  = "sqlite3" // github.com/mattn/go-sqlite3 (cgo)
	DriverSQLite   = "sqlite"  // modernc.org/sqlite (pure Go)
	DriverPostgres = "pgx"     // github.com/jackc/pgx/v5/stdlib
)

// Open connects to the store named by driver and dsn and brings the schema
// up to date. SQLite files get their parent directory created.
// Migration progress is logged to logger; nil uses the logrus standard logger.
func Open(ctx context.Context, driver, dsn string, logger logrus.FieldLogger) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, dialect, err
	}

	if dialect == SQLite {
		if err := ensureDir(dsn); err != nil {
			return nil, dialect, err
		}
	}

	database, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, dialect, fmt.Errorf("failed to open database: %w", err)
	}

	if err := configure(ctx, database, dialect); err != nil {
		database.Close()
		return nil, dialect, err
	}

	if err := InitSchema(ctx, database, dialect, logger); err != nil {
		database.Close()
		return nil, dialect, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, dialect, nil
}

func configure(ctx context.Context, database *sql.DB, dialect Dialect) error {
	if dialect == SQLite {
		// One connection serialises writers, so a read-modify-write unit
		// never interleaves with another.
		database.SetMaxOpenConns(1)
		for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
			if _, err := database.ExecContext(ctx, pragma); err != nil {
				return fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
		return nil
	}

	if err := database.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return nil
}

// ensureDir creates the directory holding a SQLite file DSN.
func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

// GetDBPath returns the path to the default database file
func GetDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskboard", "taskboard.db"), nil
}
