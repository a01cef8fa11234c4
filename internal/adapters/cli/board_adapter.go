package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/taskboard/internal/models"
	"github.com/example/taskboard/internal/ports/primary"
)

// BoardAdapter is a thin adapter that translates CLI operations to BoardService calls.
// It depends only on the BoardService interface, enabling easy testing with mocks.
type BoardAdapter struct {
	service primary.BoardService
	out     io.Writer
}

// NewBoardAdapter creates a new BoardAdapter with the given service.
func NewBoardAdapter(service primary.BoardService, out io.Writer) *BoardAdapter {
	return &BoardAdapter{
		service: service,
		out:     out,
	}
}

// Board prints every column with its tasks in order.
func (a *BoardAdapter) Board(ctx context.Context) (*primary.Board, error) {
	board, err := a.service.GetBoard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	for i, col := range board.Columns {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		fmt.Fprintf(a.out, "%s (%d)\n", color.New(color.Bold).Sprint(col.Name), len(col.Tasks))
		if len(col.Tasks) == 0 {
			fmt.Fprintln(a.out, "  (empty)")
			continue
		}
		for _, t := range col.Tasks {
			fmt.Fprintf(a.out, "  %d. %s %s %s\n", t.Position, t.TaskID, priorityLabel(t.Priority), t.Title)
		}
	}
	return board, nil
}

// Columns lists the board columns.
func (a *BoardAdapter) Columns(ctx context.Context) ([]*primary.Column, error) {
	columns, err := a.service.ListColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPOSITION\tCOLOR")
	fmt.Fprintln(w, "--\t----\t--------\t-----")
	for _, col := range columns {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", col.ID, col.Name, col.Position, col.Color)
	}
	w.Flush()
	return columns, nil
}

// List lists active tasks. A zero columnID lists every column.
func (a *BoardAdapter) List(ctx context.Context, columnID int64) ([]*primary.Task, error) {
	tasks, err := a.service.ListTasks(ctx, primary.TaskFilters{ColumnID: columnID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first task:")
		fmt.Fprintln(a.out, `  taskboard task create "Write the README" --column 1`)
		return tasks, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tCOLUMN\tPOS\tPRIORITY\tTITLE")
	fmt.Fprintln(w, "--\t------\t---\t--------\t-----")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			t.TaskID,
			t.ColumnName,
			t.Position,
			t.Priority,
			t.Title,
		)
	}
	w.Flush()
	return tasks, nil
}

// Show displays details for a single task.
func (a *BoardAdapter) Show(ctx context.Context, taskID string) (*primary.Task, error) {
	t, err := a.service.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	fmt.Fprintf(a.out, "\nTask: %s\n", t.TaskID)
	fmt.Fprintf(a.out, "Title:    %s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(a.out, "Details:  %s\n", t.Description)
	}
	fmt.Fprintf(a.out, "Column:   %s (#%d)\n", t.ColumnName, t.Position)
	fmt.Fprintf(a.out, "Priority: %s\n", priorityLabel(t.Priority))
	fmt.Fprintf(a.out, "Created:  %s\n", t.CreatedAt)
	fmt.Fprintf(a.out, "Updated:  %s\n", t.UpdatedAt)
	fmt.Fprintln(a.out)

	return t, nil
}

// Create creates a task at the end of a column.
func (a *BoardAdapter) Create(ctx context.Context, req primary.CreateTaskRequest) (*primary.CreateTaskResponse, error) {
	resp, err := a.service.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created task %s: %s\n", resp.TaskID, req.Title)
	fmt.Fprintf(a.out, "  Column %d, position %d\n", req.ColumnID, resp.Position)
	return resp, nil
}

// Update changes a task's fields.
func (a *BoardAdapter) Update(ctx context.Context, req primary.UpdateTaskRequest) (*primary.UpdateTaskResponse, error) {
	resp, err := a.service.UpdateTask(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.Changes == 0 {
		fmt.Fprintf(a.out, "No task %s to update\n", req.TaskID)
		return resp, nil
	}
	fmt.Fprintf(a.out, "✓ Task %s updated\n", req.TaskID)
	return resp, nil
}

// Move moves a task within or across columns.
func (a *BoardAdapter) Move(ctx context.Context, req primary.MoveTaskRequest) (*primary.MoveTaskResponse, error) {
	resp, err := a.service.MoveTask(ctx, req)
	if err != nil {
		return nil, err
	}

	if !resp.Moved {
		fmt.Fprintf(a.out, "%s already in place (column %d, position %d)\n", req.TaskID, resp.ColumnID, resp.Position)
		return resp, nil
	}
	fmt.Fprintf(a.out, "✓ Moved %s → column %d, position %d\n", req.TaskID, resp.ColumnID, resp.Position)
	return resp, nil
}

// Delete deletes a task.
func (a *BoardAdapter) Delete(ctx context.Context, taskID string) (*primary.DeleteTaskResponse, error) {
	resp, err := a.service.DeleteTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Deleted task %s\n", taskID)
	return resp, nil
}

// Doctor checks every column for broken ordering and optionally repairs it.
func (a *BoardAdapter) Doctor(ctx context.Context, fix bool) ([]primary.PositionIssue, error) {
	issues, err := a.service.CheckPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check positions: %w", err)
	}

	if len(issues) == 0 {
		fmt.Fprintf(a.out, "%s every column is ordered 1..N\n", color.New(color.FgGreen).Sprint("✓"))
		return issues, nil
	}

	for _, issue := range issues {
		fmt.Fprintf(a.out, "%s %s: %s\n", color.New(color.FgYellow).Sprint("!"), issue.ColumnName, issue.Detail)
	}

	if !fix {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Run with --fix to renumber the affected columns.")
		return issues, nil
	}

	moved, err := a.service.RepairPositions(ctx)
	if err != nil {
		return issues, fmt.Errorf("failed to repair positions: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Renumbered %d %s\n", moved, plural(moved, "task", "tasks"))
	return issues, nil
}

func priorityLabel(p string) string {
	label := strings.ToUpper(p)
	switch p {
	case models.PriorityHigh:
		return color.New(color.FgRed).Sprint(label)
	case models.PriorityMedium:
		return color.New(color.FgYellow).Sprint(label)
	case models.PriorityLow:
		return color.New(color.FgGreen).Sprint(label)
	default:
		return label
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
