// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// TaskRepository defines the secondary port for task persistence.
// Position statements only ever touch active tasks of one column.
type TaskRepository interface {
	// Create persists a new task and returns its store id.
	Create(ctx context.Context, task *TaskRecord) (int64, error)

	// GetByTaskID retrieves an active task by its label; nil when absent.
	GetByTaskID(ctx context.Context, taskID string) (*TaskRecord, error)

	// List retrieves active tasks in board order (column position, task position).
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)

	// Update applies the non-nil fields and returns the affected row count.
	Update(ctx context.Context, taskID string, fields TaskUpdate) (int64, error)

	// Delete removes the task row with the given store id and returns the affected row count.
	Delete(ctx context.Context, id int64) (int64, error)

	// MaxPosition returns the highest active position in a column, 0 when empty.
	MaxPosition(ctx context.Context, columnID int64) (int, error)

	// ShiftPositions adds delta to active tasks of a column with from <= position <= to.
	// to == 0 leaves the range open at the top.
	ShiftPositions(ctx context.Context, columnID int64, from, to, delta int) (int64, error)

	// Place sets the column and position of the row with the given store id
	// and refreshes updated_at.
	Place(ctx context.Context, id int64, columnID int64, position int) error

	// NextSequence atomically increments and returns the identifier counter.
	NextSequence(ctx context.Context) (int64, error)
}

// ColumnRepository defines the secondary port for column persistence.
type ColumnRepository interface {
	// List retrieves all columns ordered by position.
	List(ctx context.Context) ([]*ColumnRecord, error)

	// GetByID retrieves a column; nil when absent.
	GetByID(ctx context.Context, id int64) (*ColumnRecord, error)

	// Lock takes write locks on the given columns for the current transaction.
	Lock(ctx context.Context, ids ...int64) error
}

// Transactor runs a unit of work inside one store transaction.
// Repositories called with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// BoardCache stores the last read board snapshot.
// A nil snapshot with nil error is a miss.
//
// Fills are conditional: a reader takes the Generation before reading the
// store and passes it to Set, which stores nothing if an Invalidate ran in
// between.
type BoardCache interface {
	Get(ctx context.Context) (*BoardSnapshot, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, snap *BoardSnapshot, gen int64, ttl time.Duration) (bool, error)
	Invalidate(ctx context.Context) error
}

// TaskRecord represents a task as stored in persistence.
type TaskRecord struct {
	ID          int64
	TaskID      string
	Title       string
	Description string
	ColumnID    int64
	Position    int
	Priority    string
	Status      string
	CreatedAt   string
	UpdatedAt   string
	ColumnName  string // joined, read only
	ColumnColor string // joined, read only
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	ColumnID int64 // 0 means all columns
}

// TaskUpdate carries the fields of a partial update. Nil means unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *string
}

// ColumnRecord represents a column as stored in persistence.
type ColumnRecord struct {
	ID        int64
	Name      string
	Position  int
	Color     string
	CreatedAt string
}

// BoardSnapshot is what the cache holds: everything GetBoard needs.
type BoardSnapshot struct {
	Columns []*ColumnRecord `json:"columns"`
	Tasks   []*TaskRecord   `json:"tasks"`
}
