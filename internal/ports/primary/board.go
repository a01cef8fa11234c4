package primary

import "context"

// BoardService defines the primary port for board and task operations.
// Every front end (MCP tools, REST, CLI) drives the board through this port.
type BoardService interface {
	// ListTasks lists active tasks, optionally limited to one column.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*Task, error)

	// ListColumns lists all columns ordered by position.
	ListColumns(ctx context.Context) ([]*Column, error)

	// GetBoard returns every column with its active tasks in board order.
	GetBoard(ctx context.Context) (*Board, error)

	// GetTask retrieves one active task by its label.
	GetTask(ctx context.Context, taskID string) (*Task, error)

	// CreateTask appends a new task to the end of a column.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*CreateTaskResponse, error)

	// UpdateTask changes a task's title, description and/or priority.
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*UpdateTaskResponse, error)

	// MoveTask moves a task within its column or to another column.
	MoveTask(ctx context.Context, req MoveTaskRequest) (*MoveTaskResponse, error)

	// DeleteTask deletes a task and closes the gap it leaves.
	DeleteTask(ctx context.Context, taskID string) (*DeleteTaskResponse, error)

	// CheckPositions reports columns whose positions are not 1..N.
	CheckPositions(ctx context.Context) ([]PositionIssue, error)

	// RepairPositions renumbers broken columns and returns how many tasks moved.
	RepairPositions(ctx context.Context) (int, error)
}

// Task is an active task together with its column's display data.
type Task struct {
	ID          int64  `json:"id"`
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ColumnID    int64  `json:"column_id"`
	Position    int    `json:"position"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	ColumnName  string `json:"column_name"`
	ColumnColor string `json:"column_color"`
}

// Column is a board column.
type Column struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at,omitempty"`
}

// BoardColumn is a column with its tasks; it encodes flat like {id, name, ..., tasks}.
type BoardColumn struct {
	Column
	Tasks []*Task `json:"tasks"`
}

// Board is the full board in column order.
type Board struct {
	Columns []*BoardColumn
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	ColumnID int64 // 0 means all columns
}

// CreateTaskRequest contains parameters for creating a task.
type CreateTaskRequest struct {
	Title       string
	Description string
	ColumnID    int64
	Priority    string // Optional: low, medium (default), high
}

// CreateTaskResponse contains the result of creating a task.
type CreateTaskResponse struct {
	TaskID   string
	ID       int64
	Position int
}

// UpdateTaskRequest contains parameters for updating a task.
// Nil fields are left unchanged.
type UpdateTaskRequest struct {
	TaskID      string
	Title       *string
	Description *string
	Priority    *string
}

// UpdateTaskResponse contains the result of updating a task.
type UpdateTaskResponse struct {
	Changes int64
}

// MoveTaskRequest contains parameters for moving a task.
type MoveTaskRequest struct {
	TaskID      string
	NewColumnID int64
	NewPosition *int // Optional: append (cross column) or stay (same column) when nil
}

// MoveTaskResponse contains the result of moving a task.
type MoveTaskResponse struct {
	Moved    bool
	Message  string
	ColumnID int64
	Position int
}

// DeleteTaskResponse contains the result of deleting a task.
type DeleteTaskResponse struct {
	Changes int64
}

// PositionIssue describes one column whose ordering is broken.
type PositionIssue struct {
	ColumnID   int64
	ColumnName string
	Detail     string
}

// Move outcome messages.
const (
	MessageMoved   = "Task moved successfully"
	MessageInPlace = "Task already in place"
)
