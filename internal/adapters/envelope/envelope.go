// Package envelope holds the {success, ...} JSON bodies shared by the MCP and
// REST front ends, and the mapping from service errors to status codes.
package envelope

import (
	"errors"
	"net/http"

	"github.com/example/taskboard/internal/core/task"
	"github.com/example/taskboard/internal/ports/primary"
)

// Tasks is the body of a task listing.
type Tasks struct {
	Success bool            `json:"success"`
	Tasks   []*primary.Task `json:"tasks"`
	Count   int             `json:"count"`
}

// Task is the body of a single task lookup.
type Task struct {
	Success bool          `json:"success"`
	Task    *primary.Task `json:"task"`
}

// Columns is the body of a column listing.
type Columns struct {
	Success bool              `json:"success"`
	Columns []*primary.Column `json:"columns"`
}

// Board is the body of the full board view.
type Board struct {
	Success bool                   `json:"success"`
	Board   []*primary.BoardColumn `json:"board"`
}

// Created is the body returned after creating a task.
type Created struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id"`
	ID      int64  `json:"id"`
}

// Changes is the body returned by update and delete.
type Changes struct {
	Success bool  `json:"success"`
	Changes int64 `json:"changes"`
}

// Message is the body returned by move.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error is the body of every failure.
type Error struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewTasks wraps a task listing. A nil slice encodes as [].
func NewTasks(tasks []*primary.Task) Tasks {
	if tasks == nil {
		tasks = []*primary.Task{}
	}
	return Tasks{Success: true, Tasks: tasks, Count: len(tasks)}
}

// NewColumns wraps a column listing. A nil slice encodes as [].
func NewColumns(columns []*primary.Column) Columns {
	if columns == nil {
		columns = []*primary.Column{}
	}
	return Columns{Success: true, Columns: columns}
}

// NewBoard wraps the board view.
func NewBoard(b *primary.Board) Board {
	columns := []*primary.BoardColumn{}
	if b != nil && b.Columns != nil {
		columns = b.Columns
	}
	return Board{Success: true, Board: columns}
}

// NewError wraps err's message.
func NewError(err error) Error {
	msg := "Unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Error{Success: false, Error: msg}
}

// StatusCode maps a service error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, task.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, task.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
