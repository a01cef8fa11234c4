package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/core/task"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(ctx context.Context, tx *sql.Tx, d Dialect) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "baseline_columns_and_tasks",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_task_sequence",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_task_position_indexes",
		Up:      migrationV3,
	},
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(ctx context.Context, database *sql.DB, d Dialect, logger logrus.FieldLogger) error {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := createVersionTable(ctx, database, d); err != nil {
		return err
	}

	// Get current schema version
	var currentVersion int
	err := database.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		log := logger.WithFields(logrus.Fields{"version": migration.Version, "name": migration.Name})
		log.Info("running migration")

		tx, err := database.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(ctx, tx, d); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx, d.Rebind("INSERT INTO schema_version (version) VALUES (?)"), migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		log.Info("migration completed")
	}

	return nil
}

// migrationV1 creates the board tables a database may predate.
// Boards created by earlier releases already have both; this is then a no-op.
func migrationV1(ctx context.Context, tx *sql.Tx, d Dialect) error {
	if d == Postgres {
		return execStatements(ctx, tx, `
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
				priority TEXT NOT NULL DEFAULT 'medium',
				status TEXT NOT NULL DEFAULT 'active',
				created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
			)
		`)
	}
	return execStatements(ctx, tx, `
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
			priority TEXT NOT NULL DEFAULT 'medium',
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (column_id) REFERENCES columns(id)
		)
	`)
}

// migrationV2 adds the monotonic label counter.
// Older boards derived labels from COUNT(*)+101, so the counter starts at the
// larger of COUNT(*)+100 and the highest label already issued.
func migrationV2(ctx context.Context, tx *sql.Tx, d Dialect) error {
	valueType := "INTEGER"
	if d == Postgres {
		valueType = "BIGINT"
	}
	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS task_sequence (
			name TEXT PRIMARY KEY,
			value `+valueType+` NOT NULL
		)
	`); err != nil {
		return err
	}

	var count int64
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		return err
	}
	start := count + task.SequenceStart

	rows, err := tx.QueryContext(ctx, "SELECT task_id FROM tasks")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var taskID string
		if err := rows.Scan(&taskID); err != nil {
			return err
		}
		if seq, ok := task.ParseTaskSeq(taskID); ok && seq > start {
			start = seq
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = tx.ExecContext(ctx, d.Rebind("INSERT INTO task_sequence (name, value) VALUES (?, ?)"), SequenceName, start)
	return err
}

// migrationV3 indexes the lookups the position engine runs on every write.
func migrationV3(ctx context.Context, tx *sql.Tx, d Dialect) error {
	return execStatements(ctx, tx, `
		CREATE INDEX IF NOT EXISTS idx_tasks_task_id ON tasks(task_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_column_status_position ON tasks(column_id, status, position)
	`)
}
