package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// SchemaSQL is the complete modern schema for fresh SQLite installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests
// load it via GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// query referencing a column that doesn't exist here fails with "no such column".
//
// # Keeping Schema in Sync
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL and PostgresSchemaSQL here
//  3. Run `make test` to verify alignment
//
// (column_id, position) carries no unique index: range shifts pass through
// duplicate positions mid-statement.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS columns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	position INTEGER NOT NULL,
	color TEXT NOT NULL DEFAULT '#6b7280',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	column_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	priority TEXT NOT NULL CHECK(priority IN ('low', 'medium', 'high')) DEFAULT 'medium',
	status TEXT NOT NULL CHECK(status IN ('active', 'archived')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (column_id) REFERENCES columns(id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_task_id ON tasks(task_id);
CREATE INDEX IF NOT EXISTS idx_tasks_column_status_position ON tasks(column_id, status, position);

CREATE TABLE IF NOT EXISTS task_sequence (
	name TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

// PostgresSchemaSQL is SchemaSQL for PostgreSQL.
const PostgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS columns (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	position INTEGER NOT NULL,
	color TEXT NOT NULL DEFAULT '#6b7280',
	created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id BIGSERIAL PRIMARY KEY,
	task_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	column_id BIGINT NOT NULL REFERENCES columns(id),
	position INTEGER NOT NULL,
	priority TEXT NOT NULL CHECK(priority IN ('low', 'medium', 'high')) DEFAULT 'medium',
	status TEXT NOT NULL CHECK(status IN ('active', 'archived')) DEFAULT 'active',
	created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_task_id ON tasks(task_id);
CREATE INDEX IF NOT EXISTS idx_tasks_column_status_position ON tasks(column_id, status, position);

CREATE TABLE IF NOT EXISTS task_sequence (
	name TEXT PRIMARY KEY,
	value BIGINT NOT NULL
);
`

// SequenceName is the task_sequence row backing task labels.
const SequenceName = "tasks"

// SchemaFor returns the fresh-install schema of a dialect.
func SchemaFor(d Dialect) string {
	if d == Postgres {
		return PostgresSchemaSQL
	}
	return SchemaSQL
}

// InitSchema creates or upgrades the database schema and seeds default data.
func InitSchema(ctx context.Context, database *sql.DB, d Dialect, logger logrus.FieldLogger) error {
	hasVersion, err := tableExists(ctx, database, d, "schema_version")
	if err != nil {
		return err
	}

	if hasVersion {
		// schema_version table exists - run any pending migrations
		if err := RunMigrations(ctx, database, d, logger); err != nil {
			return err
		}
		return SeedDefaults(ctx, database, d)
	}

	// No schema_version: either a board created before migrations existed,
	// or a completely fresh install.
	legacy, err := tableExists(ctx, database, d, "tasks")
	if err != nil {
		return err
	}
	if legacy {
		if err := RunMigrations(ctx, database, d, logger); err != nil {
			return err
		}
		return SeedDefaults(ctx, database, d)
	}

	if err := execStatements(ctx, database, SchemaFor(d)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := createVersionTable(ctx, database, d); err != nil {
		return err
	}
	// Mark all migrations as applied for fresh installs
	for _, m := range migrations {
		if _, err := database.ExecContext(ctx, d.Rebind("INSERT INTO schema_version (version) VALUES (?)"), m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return SeedDefaults(ctx, database, d)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

func tableExists(ctx context.Context, database *sql.DB, d Dialect, name string) (bool, error) {
	var count int
	if err := database.QueryRowContext(ctx, d.tableExistsSQL(), name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", name, err)
	}
	return count > 0, nil
}

func createVersionTable(ctx context.Context, database *sql.DB, d Dialect) error {
	ts := "DATETIME"
	if d == Postgres {
		ts = "TIMESTAMPTZ"
	}
	_, err := database.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at `+ts+` DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execStatements runs a semicolon separated script one statement at a time.
func execStatements(ctx context.Context, ex execer, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := ex.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
