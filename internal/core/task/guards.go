// Package task contains the pure business logic for task operations.
// Guards are pure functions that evaluate preconditions without side effects.
package task

import (
	"fmt"
	"strings"

	"github.com/example/taskboard/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	// Kind classifies the refusal; ErrInvalidRequest when unset.
	Kind error
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	kind := r.Kind
	if kind == nil {
		kind = ErrInvalidRequest
	}
	return &kindError{kind: kind, msg: r.Reason}
}

func deny(kind error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...), Kind: kind}
}

// CreateTaskContext provides context for task creation guards.
type CreateTaskContext struct {
	Title        string
	Priority     string // empty means default
	ColumnID     int64
	ColumnExists bool
}

// UpdateTaskContext provides context for task update guards.
// Nil fields were not supplied by the caller.
type UpdateTaskContext struct {
	TaskID      string
	Title       *string
	Description *string
	Priority    *string
}

// MoveTaskContext provides context for task move guards.
type MoveTaskContext struct {
	TaskID       string
	TaskExists   bool
	ToColumnID   int64
	ColumnExists bool
	Position     *int // optional target slot
}

// DeleteTaskContext provides context for task deletion guards.
type DeleteTaskContext struct {
	TaskID     string
	TaskExists bool
}

// CanCreateTask evaluates whether a task can be created.
// Rules:
// - Title must not be blank
// - Priority must be low, medium or high (if provided)
// - Column must exist
func CanCreateTask(ctx CreateTaskContext) GuardResult {
	if strings.TrimSpace(ctx.Title) == "" {
		return deny(ErrInvalidRequest, "title is required")
	}

	if ctx.Priority != "" && !models.ValidPriority(ctx.Priority) {
		return deny(ErrInvalidRequest, "invalid priority %q (want low, medium or high)", ctx.Priority)
	}

	if !ctx.ColumnExists {
		return deny(ErrNotFound, "column %d not found", ctx.ColumnID)
	}

	return GuardResult{Allowed: true}
}

// CanUpdateTask evaluates whether an update request is acceptable.
// Rules:
// - At least one field must be supplied
// - A supplied title must not be blank
// - A supplied priority must be valid
func CanUpdateTask(ctx UpdateTaskContext) GuardResult {
	if ctx.Title == nil && ctx.Description == nil && ctx.Priority == nil {
		return deny(ErrInvalidRequest, "No fields to update")
	}

	if ctx.Title != nil && strings.TrimSpace(*ctx.Title) == "" {
		return deny(ErrInvalidRequest, "title cannot be empty")
	}

	if ctx.Priority != nil && !models.ValidPriority(*ctx.Priority) {
		return deny(ErrInvalidRequest, "invalid priority %q (want low, medium or high)", *ctx.Priority)
	}

	return GuardResult{Allowed: true}
}

// CanMoveTask evaluates whether a task can be moved.
// Rules:
// - Position must be at least 1 (if provided)
// - Task must exist and be active
// - Target column must exist
func CanMoveTask(ctx MoveTaskContext) GuardResult {
	if ctx.Position != nil && *ctx.Position < 1 {
		return deny(ErrInvalidRequest, "position must be at least 1, got %d", *ctx.Position)
	}

	if !ctx.TaskExists {
		return deny(ErrNotFound, "Task not found")
	}

	if !ctx.ColumnExists {
		return deny(ErrNotFound, "column %d not found", ctx.ToColumnID)
	}

	return GuardResult{Allowed: true}
}

// CanDeleteTask evaluates whether a task can be deleted.
func CanDeleteTask(ctx DeleteTaskContext) GuardResult {
	if !ctx.TaskExists {
		return deny(ErrNotFound, "Task not found")
	}
	return GuardResult{Allowed: true}
}
