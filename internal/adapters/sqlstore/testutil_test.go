// Package sqlstore_test contains integration tests for the SQL repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/taskboard/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema,
// the default columns (ids 1..4) and the label counter.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open(db.DriverSQLite3, ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each connection to :memory: is its own database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if err := db.SeedDefaults(context.Background(), testDB, db.SQLite); err != nil {
		t.Fatalf("failed to seed defaults: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedTask inserts an active task directly and returns its store id.
func seedTask(t *testing.T, testDB *sql.DB, taskID string, columnID int64, position int) int64 {
	t.Helper()
	var id int64
	err := testDB.QueryRow(
		"INSERT INTO tasks (task_id, title, column_id, position) VALUES (?, ?, ?, ?) RETURNING id",
		taskID, "Task "+taskID, columnID, position,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return id
}

// positionsOf returns task_id -> position for the active tasks of a column.
func positionsOf(t *testing.T, testDB *sql.DB, columnID int64) map[string]int {
	t.Helper()
	rows, err := testDB.Query("SELECT task_id, position FROM tasks WHERE column_id = ? AND status = 'active'", columnID)
	if err != nil {
		t.Fatalf("failed to read positions: %v", err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var id string
		var pos int
		if err := rows.Scan(&id, &pos); err != nil {
			t.Fatalf("failed to scan position: %v", err)
		}
		result[id] = pos
	}
	return result
}
