package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/adapters/envelope"
	"github.com/example/taskboard/internal/core/task"
	"github.com/example/taskboard/internal/ports/primary"
)

type handlers struct {
	service         primary.BoardService
	defaultColumnID int64
	logger          logrus.FieldLogger
}

type createTaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ColumnID    *int64 `json:"column_id"`
	Priority    string `json:"priority"`
}

type updateTaskBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
}

type moveTaskBody struct {
	NewColumnID *int64 `json:"new_column_id"`
	NewPosition *int   `json:"new_position"`
}

func (h *handlers) listTasks(c echo.Context) error {
	var filters primary.TaskFilters
	if raw := strings.TrimSpace(c.QueryParam("column_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return h.fail(c, task.Invalid("invalid column_id %q", raw))
		}
		filters.ColumnID = id
	}

	tasks, err := h.service.ListTasks(c.Request().Context(), filters)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope.NewTasks(tasks))
}

func (h *handlers) listColumns(c echo.Context) error {
	columns, err := h.service.ListColumns(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope.NewColumns(columns))
}

func (h *handlers) getBoard(c echo.Context) error {
	board, err := h.service.GetBoard(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope.NewBoard(board))
}

func (h *handlers) getTask(c echo.Context) error {
	t, err := h.service.GetTask(c.Request().Context(), c.Param("task_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope.Task{Success: true, Task: t})
}

func (h *handlers) createTask(c echo.Context) error {
	var body createTaskBody
	if err := c.Bind(&body); err != nil {
		return h.fail(c, task.Invalid("invalid body"))
	}

	columnID := h.defaultColumnID
	if body.ColumnID != nil {
		columnID = *body.ColumnID
	}

	resp, err := h.service.CreateTask(c.Request().Context(), primary.CreateTaskRequest{
		Title:       body.Title,
		Description: body.Description,
		ColumnID:    columnID,
		Priority:    body.Priority,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope.Created{Success: true, TaskID: resp.TaskID, ID: resp.ID})
}

func (h *handlers) updateTask(c echo.Context) error {
	var body updateTaskBody
	if err := c.Bind(&body); err != nil {
		return h.fail(c, task.Invalid("invalid body"))
	}

	resp, err := h.service.UpdateTask(c.Request().Context(), primary.UpdateTaskRequest{
		TaskID:      c.Param("task_id"),
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope.Changes{Success: true, Changes: resp.Changes})
}

func (h *handlers) moveTask(c echo.Context) error {
	taskID := c.Param("task_id")
	if taskID == "" {
		return h.fail(c, task.Invalid("Task ID is required"))
	}

	var body moveTaskBody
	if err := c.Bind(&body); err != nil {
		return h.fail(c, task.Invalid("invalid body"))
	}
	if body.NewColumnID == nil {
		return h.fail(c, task.Invalid("new_column_id is required"))
	}

	resp, err := h.service.MoveTask(c.Request().Context(), primary.MoveTaskRequest{
		TaskID:      taskID,
		NewColumnID: *body.NewColumnID,
		NewPosition: body.NewPosition,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope.Message{Success: true, Message: resp.Message})
}

func (h *handlers) deleteTask(c echo.Context) error {
	resp, err := h.service.DeleteTask(c.Request().Context(), c.Param("task_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope.Changes{Success: true, Changes: resp.Changes})
}

// fail renders err as a {success:false} body with its mapped status.
func (h *handlers) fail(c echo.Context, err error) error {
	status := envelope.StatusCode(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("uri", c.Request().RequestURI).Error("request failed")
	}
	return c.JSON(status, envelope.NewError(err))
}
