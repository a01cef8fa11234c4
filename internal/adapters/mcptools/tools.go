// Package mcptools exposes the board service as MCP tools.
// Every tool answers with the same {success, ...} JSON the REST API returns;
// domain failures come back as tool errors, never as protocol errors.
package mcptools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/adapters/envelope"
	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/models"
	"github.com/example/taskboard/internal/ports/primary"
)

// Handlers implements the board tools over a BoardService.
type Handlers struct {
	service primary.BoardService
	logger  logrus.FieldLogger
}

// NewHandlers creates the tool handlers.
func NewHandlers(service primary.BoardService, logger logrus.FieldLogger) *Handlers {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handlers{service: service, logger: logger}
}

// Tools returns every tool definition paired with its handler.
func (h *Handlers) Tools() []server.ServerTool {
	priorities := []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}

	tools := []server.ServerTool{
		{
			Tool: mcp.NewTool("get_tasks",
				mcp.WithDescription("List active tasks in board order, optionally limited to one column."),
				mcp.WithNumber("column_id", mcp.Description("Only return tasks in this column")),
			),
			Handler: h.getTasks,
		},
		{
			Tool: mcp.NewTool("get_columns",
				mcp.WithDescription("List the board columns ordered by position."),
			),
			Handler: h.getColumns,
		},
		{
			Tool: mcp.NewTool("get_task",
				mcp.WithDescription("Fetch one active task by its label, e.g. DEV-101."),
				mcp.WithString("task_id", mcp.Required(), mcp.Description("Task label")),
			),
			Handler: h.getTask,
		},
		{
			Tool: mcp.NewTool("create_task",
				mcp.WithDescription("Create a task at the end of a column. Returns its generated label."),
				mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
				mcp.WithString("description", mcp.Description("Longer description")),
				mcp.WithNumber("column_id", mcp.Required(), mcp.Description("Column to create the task in")),
				mcp.WithString("priority", mcp.Enum(priorities...), mcp.Description("Defaults to medium")),
			),
			Handler: h.createTask,
		},
		{
			Tool: mcp.NewTool("update_task",
				mcp.WithDescription("Change a task's title, description and/or priority."),
				mcp.WithString("task_id", mcp.Required(), mcp.Description("Task label")),
				mcp.WithString("title", mcp.Description("New title")),
				mcp.WithString("description", mcp.Description("New description")),
				mcp.WithString("priority", mcp.Enum(priorities...), mcp.Description("New priority")),
			),
			Handler: h.updateTask,
		},
		{
			Tool: mcp.NewTool("move_task",
				mcp.WithDescription("Move a task to a position in the same or another column. Without new_position a cross-column move appends."),
				mcp.WithString("task_id", mcp.Required(), mcp.Description("Task label")),
				mcp.WithNumber("new_column_id", mcp.Required(), mcp.Description("Target column")),
				mcp.WithNumber("new_position", mcp.Min(1), mcp.Description("1-based target position")),
			),
			Handler: h.moveTask,
		},
		{
			Tool: mcp.NewTool("delete_task",
				mcp.WithDescription("Delete a task and close the gap it leaves in its column."),
				mcp.WithString("task_id", mcp.Required(), mcp.Description("Task label")),
			),
			Handler: h.deleteTask,
		},
		{
			Tool: mcp.NewTool("get_board",
				mcp.WithDescription("Return every column with its active tasks in order."),
			),
			Handler: h.getBoard,
		},
	}
	for i := range tools {
		tools[i].Handler = asActor(tools[i].Handler)
	}
	return tools
}

// asActor tags the request context so service logs attribute writes to MCP.
func asActor(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return next(ctxutil.WithActor(ctx, ctxutil.ActorMCP), req)
	}
}

func (h *Handlers) getTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req.GetArguments())
	columnID, _, err := a.num("column_id")
	if err != nil {
		return h.fail(req, err)
	}
	tasks, err := h.service.ListTasks(ctx, primary.TaskFilters{ColumnID: columnID})
	if err != nil {
		return h.fail(req, err)
	}
	return ok(envelope.NewTasks(tasks))
}

func (h *Handlers) getColumns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	columns, err := h.service.ListColumns(ctx)
	if err != nil {
		return h.fail(req, err)
	}
	return ok(envelope.NewColumns(columns))
}

func (h *Handlers) getTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := args(req.GetArguments()).requireStr("task_id")
	if err != nil {
		return h.fail(req, err)
	}
	t, err := h.service.GetTask(ctx, taskID)
	if err != nil {
		return h.fail(req, err)
	}
	return ok(envelope.Task{Success: true, Task: t})
}

func (h *Handlers) createTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req.GetArguments())
	title, err := a.requireStr("title")
	if err != nil {
		return h.fail(req, err)
	}
	description, _, err := a.str("description")
	if err != nil {
		return h.fail(req, err)
	}
	columnID, err := a.requireNum("column_id")
	if err != nil {
		return h.fail(req, err)
	}
	priority, _, err := a.str("priority")
	if err != nil {
		return h.fail(req, err)
	}

	resp, err := h.service.CreateTask(ctx, primary.CreateTaskRequest{
		Title:       title,
		Description: description,
		ColumnID:    columnID,
		Priority:    priority,
	})
	if err != nil {
		return h.fail(req, err)
	}
	return ok(envelope.Created{Success: true, TaskID: resp.TaskID, ID: resp.ID})
}

func (h *Handlers) updateTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req.GetArguments())
	taskID, err := a.requireStr("task_id")
	if err != nil {
		return h.fail(req, err)
	}
	update := primary.UpdateTaskRequest{TaskID: taskID}
	if update.Title, err = a.optStr("title"); err != nil {
		return h.fail(req, err)
	}
	if update.Description, err = a.optStr("description"); err != nil {
		return h.fail(req, err)
	}
	if update.Priority, err = a.optStr("priority"); err != nil {
		return h.fail(req, err)
	}

	resp, err := h.service.UpdateTask(ctx, update)
	if err != nil {
		return h.fail(req, err)
	}
	return ok(envelope.Changes{Success: true, Changes: resp.Changes})
}

func (h *Handlers) moveTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req.GetArguments())
	taskID, err := a.requireStr("task_id")
	if err != nil {
		return h.fail(req, err)
	}
	columnID, err := a.requireNum("new_column_id")
	if err != nil {
		return h.fail(req, err)
	}
	move := primary.MoveTaskRequest{TaskID: taskID, NewColumnID: columnID}
	if p, supplied, err := a.num("new_position"); err != nil {
		return h.fail(req, err)
	} else if supplied {
		pos := int(p)
		move.NewPosition = &pos
	}

	resp, err := h.service.MoveTask(ctx, move)
	if err != nil {
		return h.fail(req, err)
	}
	return ok(envelope.Message{Success: true, Message: resp.Message})
}

func (h *Handlers) deleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := args(req.GetArguments()).requireStr("task_id")
	if err != nil {
		return h.fail(req, err)
	}
	resp, err := h.service.DeleteTask(ctx, taskID)
	if err != nil {
		return h.fail(req, err)
	}
	return ok(envelope.Changes{Success: true, Changes: resp.Changes})
}

func (h *Handlers) getBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := h.service.GetBoard(ctx)
	if err != nil {
		return h.fail(req, err)
	}
	return ok(envelope.NewBoard(b))
}

// ok encodes a success envelope as indented JSON text.
func ok(body any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// fail encodes err as an error envelope and flags the result as a tool error.
func (h *Handlers) fail(req mcp.CallToolRequest, err error) (*mcp.CallToolResult, error) {
	entry := h.logger.WithFields(logrus.Fields{"tool": req.Params.Name, "status": envelope.StatusCode(err)})
	if envelope.StatusCode(err) >= 500 {
		entry.WithError(err).Error("tool call failed")
	} else {
		entry.WithError(err).Debug("tool call rejected")
	}

	data, mErr := json.Marshal(envelope.NewError(err))
	if mErr != nil {
		return nil, mErr
	}
	return mcp.NewToolResultError(string(data)), nil
}
