package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/models"
	"github.com/example/taskboard/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository.
type TaskRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(database *sql.DB, dialect db.Dialect) *TaskRepository {
	return &TaskRepository{db: database, dialect: dialect}
}

var _ secondary.TaskRepository = (*TaskRepository)(nil)

// scanTask scans a joined task row into a TaskRecord.
func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskRecord, error) {
	var (
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	record := &secondary.TaskRecord{}
	err := scanner.Scan(
		&record.ID, &record.TaskID, &record.Title, &record.Description,
		&record.ColumnID, &record.Position, &record.Priority, &record.Status,
		&createdAt, &updatedAt, &record.ColumnName, &record.ColumnColor,
	)
	if err != nil {
		return nil, err
	}

	if createdAt.Valid {
		record.CreatedAt = createdAt.Time.Format(time.RFC3339)
	}
	if updatedAt.Valid {
		record.UpdatedAt = updatedAt.Time.Format(time.RFC3339)
	}
	return record, nil
}

const taskSelectCols = "t.id, t.task_id, t.title, t.description, t.column_id, t.position, t.priority, t.status, t.created_at, t.updated_at, c.name, c.color"

const taskFrom = " FROM tasks t JOIN columns c ON t.column_id = c.id"

// Create persists a new active task and returns its store id.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) (int64, error) {
	var id int64
	err := conn(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind("INSERT INTO tasks (task_id, title, description, column_id, position, priority, status) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id"),
		task.TaskID, task.Title, task.Description, task.ColumnID, task.Position, task.Priority, models.TaskStatusActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}
	return id, nil
}

// GetByTaskID retrieves an active task by its label; nil when absent.
func (r *TaskRepository) GetByTaskID(ctx context.Context, taskID string) (*secondary.TaskRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind("SELECT "+taskSelectCols+taskFrom+" WHERE t.task_id = ? AND t.status = ? ORDER BY t.id LIMIT 1"),
		taskID, models.TaskStatusActive,
	)

	record, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return record, nil
}

// List retrieves active tasks ordered by column position then task position.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	query := "SELECT " + taskSelectCols + taskFrom + " WHERE t.status = ?"
	args := []any{models.TaskStatusActive}

	if filters.ColumnID != 0 {
		query += " AND t.column_id = ?"
		args = append(args, filters.ColumnID)
	}

	query += " ORDER BY c.position, t.position, t.id"

	rows, err := conn(ctx, r.db).QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}
	return tasks, rows.Err()
}

// Update applies the non-nil fields to an active task.
func (r *TaskRepository) Update(ctx context.Context, taskID string, fields secondary.TaskUpdate) (int64, error) {
	var (
		sets []string
		args []any
	)
	if fields.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *fields.Title)
	}
	if fields.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *fields.Description)
	}
	if fields.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *fields.Priority)
	}
	if len(sets) == 0 {
		return 0, nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, taskID, models.TaskStatusActive)

	result, err := conn(ctx, r.db).ExecContext(ctx,
		r.dialect.Rebind("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE task_id = ? AND status = ?"),
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update task: %w", err)
	}
	return result.RowsAffected()
}

// Delete removes one active task row by store id.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		r.dialect.Rebind("DELETE FROM tasks WHERE id = ? AND status = ?"),
		id, models.TaskStatusActive,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}
	return result.RowsAffected()
}

// MaxPosition returns the highest active position in a column, 0 when empty.
func (r *TaskRepository) MaxPosition(ctx context.Context, columnID int64) (int, error) {
	var highest int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind("SELECT COALESCE(MAX(position), 0) FROM tasks WHERE column_id = ? AND status = ?"),
		columnID, models.TaskStatusActive,
	).Scan(&highest)
	if err != nil {
		return 0, fmt.Errorf("failed to read max position: %w", err)
	}
	return highest, nil
}

// ShiftPositions adds delta to active tasks of a column with from <= position <= to.
// to == 0 leaves the range open at the top.
func (r *TaskRepository) ShiftPositions(ctx context.Context, columnID int64, from, to, delta int) (int64, error) {
	query := "UPDATE tasks SET position = position + ? WHERE column_id = ? AND status = ? AND position >= ?"
	args := []any{delta, columnID, models.TaskStatusActive, from}
	if to != 0 {
		query += " AND position <= ?"
		args = append(args, to)
	}

	result, err := conn(ctx, r.db).ExecContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to shift positions: %w", err)
	}
	return result.RowsAffected()
}

// Place sets one active task's column and position by store id and refreshes updated_at.
func (r *TaskRepository) Place(ctx context.Context, id int64, columnID int64, position int) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		r.dialect.Rebind("UPDATE tasks SET column_id = ?, position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?"),
		columnID, position, id, models.TaskStatusActive,
	)
	if err != nil {
		return fmt.Errorf("failed to place task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to place task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task row %d not found", id)
	}
	return nil
}

// NextSequence atomically increments and returns the label counter.
func (r *TaskRepository) NextSequence(ctx context.Context) (int64, error) {
	var value int64
	err := conn(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind("UPDATE task_sequence SET value = value + 1 WHERE name = ? RETURNING value"),
		db.SequenceName,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("task sequence %q is not initialised", db.SequenceName)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to advance task sequence: %w", err)
	}
	return value, nil
}
