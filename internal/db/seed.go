package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/taskboard/internal/core/task"
	"github.com/example/taskboard/internal/models"
)

// SeedDefaults inserts the default columns into an empty board and makes sure
// the label counter row exists. It is safe to call on every start.
func SeedDefaults(ctx context.Context, database *sql.DB, d Dialect) error {
	var columnCount int
	if err := database.QueryRowContext(ctx, "SELECT COUNT(*) FROM columns").Scan(&columnCount); err != nil {
		return fmt.Errorf("seed columns: %w", err)
	}
	if columnCount == 0 {
		for _, c := range models.DefaultColumns {
			if _, err := database.ExecContext(ctx,
				d.Rebind("INSERT INTO columns (name, position, color) VALUES (?, ?, ?)"),
				c.Name, c.Position, c.Color,
			); err != nil {
				return fmt.Errorf("seed columns: %w", err)
			}
		}
	}

	if _, err := database.ExecContext(ctx,
		d.Rebind("INSERT INTO task_sequence (name, value) VALUES (?, ?) ON CONFLICT (name) DO NOTHING"),
		SequenceName, task.SequenceStart,
	); err != nil {
		return fmt.Errorf("seed task sequence: %w", err)
	}
	return nil
}

// SeedFixtures populates an empty board with demo tasks.
// Labels are drawn from the counter so later creates continue the series.
func SeedFixtures(ctx context.Context, database *sql.DB, d Dialect, prefix string) error {
	var taskCount int
	if err := database.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&taskCount); err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	if taskCount > 0 {
		return fmt.Errorf("seed tasks: board already has %d tasks", taskCount)
	}

	fixtures := []struct {
		title, description, priority string
		column                       int
	}{
		{"Set up CI pipeline", "Lint, test and build on every push", models.PriorityHigh, 1},
		{"Write onboarding guide", "", models.PriorityLow, 1},
		{"Design board API", "REST and tool endpoints share one service", models.PriorityMedium, 1},
		{"Implement position engine", "Dense 1..N ordering per column", models.PriorityHigh, 2},
		{"Review migration plan", "", models.PriorityMedium, 3},
		{"Create project repository", "", models.PriorityMedium, 4},
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	defer tx.Rollback()

	columnIDs, err := columnIDsByPosition(ctx, tx)
	if err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}

	positions := make(map[int64]int)
	for _, f := range fixtures {
		if f.column > len(columnIDs) {
			continue
		}
		columnID := columnIDs[f.column-1]

		var seq int64
		if err := tx.QueryRowContext(ctx,
			d.Rebind("UPDATE task_sequence SET value = value + 1 WHERE name = ? RETURNING value"),
			SequenceName,
		).Scan(&seq); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}

		positions[columnID]++
		if _, err := tx.ExecContext(ctx,
			d.Rebind("INSERT INTO tasks (task_id, title, description, column_id, position, priority) VALUES (?, ?, ?, ?, ?, ?)"),
			task.GenerateTaskID(prefix, seq), f.title, f.description, columnID, positions[columnID], f.priority,
		); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}

	return tx.Commit()
}

func columnIDsByPosition(ctx context.Context, tx *sql.Tx) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM columns ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
