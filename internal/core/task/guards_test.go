package task

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCanCreateTask(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateTaskContext
		wantAllowed bool
		wantReason  string
		wantKind    error
	}{
		{
			name:        "can create task in existing column",
			ctx:         CreateTaskContext{Title: "Write docs", ColumnID: 1, ColumnExists: true},
			wantAllowed: true,
		},
		{
			name:        "can create task with explicit priority",
			ctx:         CreateTaskContext{Title: "Write docs", Priority: "high", ColumnID: 2, ColumnExists: true},
			wantAllowed: true,
		},
		{
			name:        "cannot create task with blank title",
			ctx:         CreateTaskContext{Title: "   ", ColumnID: 1, ColumnExists: true},
			wantAllowed: false,
			wantReason:  "title is required",
			wantKind:    ErrInvalidRequest,
		},
		{
			name:        "cannot create task with unknown priority",
			ctx:         CreateTaskContext{Title: "x", Priority: "urgent", ColumnID: 1, ColumnExists: true},
			wantAllowed: false,
			wantReason:  `invalid priority "urgent" (want low, medium or high)`,
			wantKind:    ErrInvalidRequest,
		},
		{
			name:        "cannot create task in missing column",
			ctx:         CreateTaskContext{Title: "x", ColumnID: 9},
			wantAllowed: false,
			wantReason:  "column 9 not found",
			wantKind:    ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCreateTask(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed {
				if result.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
				}
				if !errors.Is(result.Error(), tt.wantKind) {
					t.Errorf("Error() = %v, want kind %v", result.Error(), tt.wantKind)
				}
			}
		})
	}
}

func TestCanUpdateTask(t *testing.T) {
	tests := []struct {
		name        string
		ctx         UpdateTaskContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "title only",
			ctx:         UpdateTaskContext{TaskID: "DEV-101", Title: strPtr("New")},
			wantAllowed: true,
		},
		{
			name:        "empty description is a valid change",
			ctx:         UpdateTaskContext{TaskID: "DEV-101", Description: strPtr("")},
			wantAllowed: true,
		},
		{
			name:        "no fields",
			ctx:         UpdateTaskContext{TaskID: "DEV-101"},
			wantAllowed: false,
			wantReason:  "No fields to update",
		},
		{
			name:        "blank title",
			ctx:         UpdateTaskContext{TaskID: "DEV-101", Title: strPtr("")},
			wantAllowed: false,
			wantReason:  "title cannot be empty",
		},
		{
			name:        "bad priority",
			ctx:         UpdateTaskContext{TaskID: "DEV-101", Priority: strPtr("LOW")},
			wantAllowed: false,
			wantReason:  `invalid priority "LOW" (want low, medium or high)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanUpdateTask(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed {
				if result.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
				}
				if !errors.Is(result.Error(), ErrInvalidRequest) {
					t.Errorf("expected ErrInvalidRequest, got %v", result.Error())
				}
			}
		})
	}
}

func TestCanMoveTask(t *testing.T) {
	tests := []struct {
		name        string
		ctx         MoveTaskContext
		wantAllowed bool
		wantKind    error
	}{
		{
			name:        "append to existing column",
			ctx:         MoveTaskContext{TaskID: "DEV-101", TaskExists: true, ToColumnID: 2, ColumnExists: true},
			wantAllowed: true,
		},
		{
			name:        "explicit position",
			ctx:         MoveTaskContext{TaskID: "DEV-101", TaskExists: true, ToColumnID: 2, ColumnExists: true, Position: intPtr(1)},
			wantAllowed: true,
		},
		{
			name:        "missing task",
			ctx:         MoveTaskContext{TaskID: "DEV-999", ToColumnID: 2, ColumnExists: true},
			wantAllowed: false,
			wantKind:    ErrNotFound,
		},
		{
			name:        "missing column",
			ctx:         MoveTaskContext{TaskID: "DEV-101", TaskExists: true, ToColumnID: 42},
			wantAllowed: false,
			wantKind:    ErrNotFound,
		},
		{
			name:        "zero position",
			ctx:         MoveTaskContext{TaskID: "DEV-101", TaskExists: true, ToColumnID: 2, ColumnExists: true, Position: intPtr(0)},
			wantAllowed: false,
			wantKind:    ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanMoveTask(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && !errors.Is(result.Error(), tt.wantKind) {
				t.Errorf("Error() = %v, want kind %v", result.Error(), tt.wantKind)
			}
		})
	}
}

func TestCanDeleteTask(t *testing.T) {
	if r := CanDeleteTask(DeleteTaskContext{TaskID: "DEV-101", TaskExists: true}); !r.Allowed {
		t.Errorf("expected delete of existing task to be allowed, got %q", r.Reason)
	}

	r := CanDeleteTask(DeleteTaskContext{TaskID: "DEV-404"})
	if r.Allowed {
		t.Fatal("expected delete of missing task to be refused")
	}
	if !errors.Is(r.Error(), ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", r.Error())
	}
	if r.Error().Error() != "Task not found" {
		t.Errorf("message = %q, want %q", r.Error().Error(), "Task not found")
	}
}

func TestGuardResult_AllowedHasNoError(t *testing.T) {
	if err := (GuardResult{Allowed: true}).Error(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestClassifiedConstructors(t *testing.T) {
	if err := NotFound("task %s not found", "DEV-1"); !errors.Is(err, ErrNotFound) || err.Error() != "task DEV-1 not found" {
		t.Errorf("NotFound produced %v", err)
	}
	if err := Invalid("bad %d", 3); !errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrNotFound) {
		t.Errorf("Invalid produced %v", err)
	}
}
