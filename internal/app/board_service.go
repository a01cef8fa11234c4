package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/core/board"
	"github.com/example/taskboard/internal/core/position"
	"github.com/example/taskboard/internal/core/task"
	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/models"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// lockAttempts bounds how often a move or delete re-reads a task whose
// column changed between the first read and the column lock.
const lockAttempts = 3

// BoardServiceOptions configures a BoardServiceImpl.
type BoardServiceOptions struct {
	IDPrefix string
	CacheTTL time.Duration
	Logger   logrus.FieldLogger
}

// BoardServiceImpl implements the BoardService interface.
type BoardServiceImpl struct {
	taskRepo   secondary.TaskRepository
	columnRepo secondary.ColumnRepository
	transactor secondary.Transactor
	cache      secondary.BoardCache
	executor   EffectExecutor
	idPrefix   string
	cacheTTL   time.Duration
	logger     logrus.FieldLogger
}

// NewBoardService creates a new BoardService with injected dependencies.
// cache may be nil, in which case every read goes to the store.
func NewBoardService(
	taskRepo secondary.TaskRepository,
	columnRepo secondary.ColumnRepository,
	transactor secondary.Transactor,
	cache secondary.BoardCache,
	executor EffectExecutor,
	opts BoardServiceOptions,
) *BoardServiceImpl {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	prefix := opts.IDPrefix
	if prefix == "" {
		prefix = task.DefaultIDPrefix
	}
	return &BoardServiceImpl{
		taskRepo:   taskRepo,
		columnRepo: columnRepo,
		transactor: transactor,
		cache:      cache,
		executor:   executor,
		idPrefix:   prefix,
		cacheTTL:   opts.CacheTTL,
		logger:     logger,
	}
}

var _ primary.BoardService = (*BoardServiceImpl)(nil)

// ListTasks lists active tasks, optionally limited to one column.
func (s *BoardServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	if filters.ColumnID != 0 {
		records, err := s.taskRepo.List(ctx, secondary.TaskFilters{ColumnID: filters.ColumnID})
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		return recordsToTasks(records), nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return recordsToTasks(snap.Tasks), nil
}

// ListColumns lists all columns ordered by position.
func (s *BoardServiceImpl) ListColumns(ctx context.Context) ([]*primary.Column, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	columns := make([]*primary.Column, len(snap.Columns))
	for i, c := range snap.Columns {
		columns[i] = recordToColumn(c)
	}
	return columns, nil
}

// GetBoard returns every column with its active tasks in board order.
func (s *BoardServiceImpl) GetBoard(ctx context.Context) (*primary.Board, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	groups := board.Assemble(snap.Columns, snap.Tasks, columnRecordID, taskRecordColumn)

	result := &primary.Board{Columns: make([]*primary.BoardColumn, len(groups))}
	for i, g := range groups {
		result.Columns[i] = &primary.BoardColumn{
			Column: *recordToColumn(g.Column),
			Tasks:  recordsToTasks(g.Tasks),
		}
	}
	return result, nil
}

// GetTask retrieves one active task by its label.
func (s *BoardServiceImpl) GetTask(ctx context.Context, taskID string) (*primary.Task, error) {
	record, err := s.taskRepo.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if record == nil {
		return nil, task.NotFound("Task not found")
	}
	return recordToTask(record), nil
}

// CreateTask appends a new task to the end of a column.
func (s *BoardServiceImpl) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.CreateTaskResponse, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}

	var resp *primary.CreateTaskResponse
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		column, err := s.columnRepo.GetByID(ctx, req.ColumnID)
		if err != nil {
			return fmt.Errorf("failed to get column: %w", err)
		}

		guard := task.CanCreateTask(task.CreateTaskContext{
			Title:        req.Title,
			Priority:     priority,
			ColumnID:     req.ColumnID,
			ColumnExists: column != nil,
		})
		if err := guard.Error(); err != nil {
			return err
		}

		if err := s.columnRepo.Lock(ctx, req.ColumnID); err != nil {
			return fmt.Errorf("failed to lock column: %w", err)
		}

		seq, err := s.taskRepo.NextSequence(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate task ID: %w", err)
		}

		columnMax, err := s.taskRepo.MaxPosition(ctx, req.ColumnID)
		if err != nil {
			return fmt.Errorf("failed to read column positions: %w", err)
		}

		plan := position.GenerateInsertPlan(position.InsertPlanInput{
			TaskID:      task.GenerateTaskID(s.idPrefix, seq),
			Title:       req.Title,
			Description: req.Description,
			Priority:    priority,
			ColumnID:    req.ColumnID,
			ColumnMax:   columnMax,
		})

		res, err := s.executor.Execute(ctx, plan.Effects())
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		resp = &primary.CreateTaskResponse{
			TaskID:   plan.Insert.TaskID,
			ID:       res.InsertedID,
			Position: plan.Position,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.WithFields(ctxutil.Fields(ctx)).WithFields(logrus.Fields{
		"task_id":   resp.TaskID,
		"column_id": req.ColumnID,
		"position":  resp.Position,
	}).Info("task created")
	return resp, nil
}

// UpdateTask changes a task's title, description and/or priority.
// An unknown task is not an error; it reports zero changes.
func (s *BoardServiceImpl) UpdateTask(ctx context.Context, req primary.UpdateTaskRequest) (*primary.UpdateTaskResponse, error) {
	guard := task.CanUpdateTask(task.UpdateTaskContext{
		TaskID:      req.TaskID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	var changes int64
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.taskRepo.Update(ctx, req.TaskID, secondary.TaskUpdate{
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
		})
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		changes = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changes > 0 {
		s.invalidate(ctx)
		s.logger.WithFields(ctxutil.Fields(ctx)).WithField("task_id", req.TaskID).Info("task updated")
	}
	return &primary.UpdateTaskResponse{Changes: changes}, nil
}

// MoveTask moves a task within its column or to another column.
func (s *BoardServiceImpl) MoveTask(ctx context.Context, req primary.MoveTaskRequest) (*primary.MoveTaskResponse, error) {
	var resp *primary.MoveTaskResponse
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		column, err := s.columnRepo.GetByID(ctx, req.NewColumnID)
		if err != nil {
			return fmt.Errorf("failed to get column: %w", err)
		}

		var extra []int64
		if column != nil {
			extra = append(extra, req.NewColumnID)
		}
		record, err := s.lockTask(ctx, req.TaskID, extra...)
		if err != nil {
			return err
		}

		guard := task.CanMoveTask(task.MoveTaskContext{
			TaskID:       req.TaskID,
			TaskExists:   record != nil,
			ToColumnID:   req.NewColumnID,
			ColumnExists: column != nil,
			Position:     req.NewPosition,
		})
		if err := guard.Error(); err != nil {
			return err
		}

		targetMax, err := s.taskRepo.MaxPosition(ctx, req.NewColumnID)
		if err != nil {
			return fmt.Errorf("failed to read column positions: %w", err)
		}

		input := position.MovePlanInput{
			ID:           record.ID,
			TaskID:       record.TaskID,
			FromColumnID: record.ColumnID,
			FromPosition: record.Position,
			ToColumnID:   req.NewColumnID,
			TargetMax:    targetMax,
		}
		if req.NewPosition != nil {
			input.ToPosition = *req.NewPosition
		}
		plan := position.GenerateMovePlan(input)

		if plan.InPlace {
			resp = &primary.MoveTaskResponse{
				Message:  primary.MessageInPlace,
				ColumnID: record.ColumnID,
				Position: record.Position,
			}
			return nil
		}

		if _, err := s.executor.Execute(ctx, plan.Effects()); err != nil {
			return fmt.Errorf("failed to move task: %w", err)
		}
		resp = &primary.MoveTaskResponse{
			Moved:    true,
			Message:  primary.MessageMoved,
			ColumnID: req.NewColumnID,
			Position: plan.Position,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Moved {
		s.invalidate(ctx)
		s.logger.WithFields(ctxutil.Fields(ctx)).WithFields(logrus.Fields{
			"task_id":   req.TaskID,
			"column_id": resp.ColumnID,
			"position":  resp.Position,
		}).Info("task moved")
	}
	return resp, nil
}

// DeleteTask deletes a task and closes the gap it leaves.
func (s *BoardServiceImpl) DeleteTask(ctx context.Context, taskID string) (*primary.DeleteTaskResponse, error) {
	var changes int64
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.lockTask(ctx, taskID)
		if err != nil {
			return err
		}

		guard := task.CanDeleteTask(task.DeleteTaskContext{TaskID: taskID, TaskExists: record != nil})
		if err := guard.Error(); err != nil {
			return err
		}

		plan := position.GenerateDeletePlan(position.DeletePlanInput{
			ID:       record.ID,
			TaskID:   record.TaskID,
			ColumnID: record.ColumnID,
			Position: record.Position,
		})
		res, err := s.executor.Execute(ctx, plan.Effects())
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		changes = res.Removed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.WithFields(ctxutil.Fields(ctx)).WithField("task_id", taskID).Info("task deleted")
	return &primary.DeleteTaskResponse{Changes: changes}, nil
}

// CheckPositions reports columns whose positions are not 1..N.
func (s *BoardServiceImpl) CheckPositions(ctx context.Context) ([]primary.PositionIssue, error) {
	columns, tasks, err := s.readStore(ctx)
	if err != nil {
		return nil, err
	}

	var issues []primary.PositionIssue
	for _, g := range board.Assemble(columns, tasks, columnRecordID, taskRecordColumn) {
		if v, ok := position.CheckColumn(g.Column.ID, slotsOf(g.Tasks)); !ok {
			issues = append(issues, primary.PositionIssue{
				ColumnID:   g.Column.ID,
				ColumnName: g.Column.Name,
				Detail:     v.String(),
			})
		}
	}
	return issues, nil
}

// RepairPositions renumbers broken columns and returns how many tasks moved.
// Relative order is kept; ties are broken by task label, then store id.
func (s *BoardServiceImpl) RepairPositions(ctx context.Context) (int, error) {
	var placed int
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		columns, err := s.columnRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list columns: %w", err)
		}
		ids := make([]int64, len(columns))
		for i, c := range columns {
			ids[i] = c.ID
		}
		if err := s.columnRepo.Lock(ctx, ids...); err != nil {
			return fmt.Errorf("failed to lock columns: %w", err)
		}

		tasks, err := s.taskRepo.List(ctx, secondary.TaskFilters{})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		for _, g := range board.Assemble(columns, tasks, columnRecordID, taskRecordColumn) {
			slots := slotsOf(g.Tasks)
			if _, ok := position.CheckColumn(g.Column.ID, slots); ok {
				continue
			}
			res, err := s.executor.Execute(ctx, position.GenerateRenumberPlan(g.Column.ID, slots))
			if err != nil {
				return fmt.Errorf("failed to renumber column %d: %w", g.Column.ID, err)
			}
			placed += res.Placed
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if placed > 0 {
		s.invalidate(ctx)
		s.logger.WithFields(ctxutil.Fields(ctx)).WithField("tasks", placed).Warn("renumbered task positions")
	}
	return placed, nil
}

// lockTask reads an active task and locks its column plus any extra columns.
// It re-reads after locking so the returned row cannot be stale.
func (s *BoardServiceImpl) lockTask(ctx context.Context, taskID string, extra ...int64) (*secondary.TaskRecord, error) {
	for attempt := 0; attempt < lockAttempts; attempt++ {
		record, err := s.taskRepo.GetByTaskID(ctx, taskID)
		if err != nil {
			return nil, fmt.Errorf("failed to get task: %w", err)
		}
		if record == nil {
			return nil, nil
		}

		ids := append([]int64{record.ColumnID}, extra...)
		if err := s.columnRepo.Lock(ctx, ids...); err != nil {
			return nil, fmt.Errorf("failed to lock columns: %w", err)
		}

		locked, err := s.taskRepo.GetByTaskID(ctx, taskID)
		if err != nil {
			return nil, fmt.Errorf("failed to get task: %w", err)
		}
		if locked == nil || locked.ColumnID == record.ColumnID {
			return locked, nil
		}
	}
	return nil, fmt.Errorf("failed to lock task %s: column kept changing", taskID)
}

// snapshot returns the cached board data, reading through to the store on a miss.
// The fill is dropped when a write evicted the cache while the store was read.
func (s *BoardServiceImpl) snapshot(ctx context.Context) (*secondary.BoardSnapshot, error) {
	var (
		gen  int64
		fill bool
	)
	if s.cache != nil {
		snap, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("board cache read failed")
		} else if snap != nil {
			return snap, nil
		}
		gen, err = s.cache.Generation(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("board cache read failed")
		} else {
			fill = true
		}
	}

	columns, tasks, err := s.readStore(ctx)
	if err != nil {
		return nil, err
	}
	snap := &secondary.BoardSnapshot{Columns: columns, Tasks: tasks}

	if fill {
		stored, err := s.cache.Set(ctx, snap, gen, s.cacheTTL)
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("board cache write failed")
		case !stored:
			s.logger.WithField("generation", gen).Debug("board cache fill skipped")
		}
	}
	return snap, nil
}

func (s *BoardServiceImpl) readStore(ctx context.Context) ([]*secondary.ColumnRecord, []*secondary.TaskRecord, error) {
	columns, err := s.columnRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list columns: %w", err)
	}
	tasks, err := s.taskRepo.List(ctx, secondary.TaskFilters{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return columns, tasks, nil
}

func (s *BoardServiceImpl) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Warn("board cache invalidation failed")
	}
}

// Helper functions

func columnRecordID(c *secondary.ColumnRecord) int64 { return c.ID }

func taskRecordColumn(t *secondary.TaskRecord) int64 { return t.ColumnID }

func slotsOf(tasks []*secondary.TaskRecord) []position.Slot {
	slots := make([]position.Slot, len(tasks))
	for i, t := range tasks {
		slots[i] = position.Slot{ID: t.ID, TaskID: t.TaskID, Position: t.Position}
	}
	return slots
}

func recordToTask(r *secondary.TaskRecord) *primary.Task {
	return &primary.Task{
		ID:          r.ID,
		TaskID:      r.TaskID,
		Title:       r.Title,
		Description: r.Description,
		ColumnID:    r.ColumnID,
		Position:    r.Position,
		Priority:    r.Priority,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		ColumnName:  r.ColumnName,
		ColumnColor: r.ColumnColor,
	}
}

func recordsToTasks(records []*secondary.TaskRecord) []*primary.Task {
	tasks := make([]*primary.Task, len(records))
	for i, r := range records {
		tasks[i] = recordToTask(r)
	}
	return tasks
}

func recordToColumn(r *secondary.ColumnRecord) *primary.Column {
	return &primary.Column{
		ID:        r.ID,
		Name:      r.Name,
		Position:  r.Position,
		Color:     r.Color,
		CreatedAt: r.CreatedAt,
	}
}
