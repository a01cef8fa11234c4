// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/core/effects"
	"github.com/example/taskboard/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place board writes happen.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) (*ExecResult, error)
}

// ExecResult accumulates what the executed effects changed.
type ExecResult struct {
	InsertedID int64
	Removed    int64
	Shifted    int64
	Placed     int
}

// DefaultEffectExecutor implements EffectExecutor against the task repository.
type DefaultEffectExecutor struct {
	tasks  secondary.TaskRepository
	logger logrus.FieldLogger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(tasks secondary.TaskRepository, logger logrus.FieldLogger) *DefaultEffectExecutor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DefaultEffectExecutor{tasks: tasks, logger: logger}
}

// Execute processes a slice of effects, executing each in sequence.
// The first failure stops execution; the caller's transaction rolls back.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) (*ExecResult, error) {
	res := &ExecResult{}
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff, res); err != nil {
			return res, fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return res, nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect, res *ExecResult) error {
	switch typed := eff.(type) {
	case effects.ShiftEffect:
		n, err := e.tasks.ShiftPositions(ctx, typed.ColumnID, typed.From, typed.To, typed.Delta)
		if err != nil {
			return err
		}
		res.Shifted += n
		e.logger.WithField("rows", n).Debug(typed.String())
		return nil
	case effects.PlaceEffect:
		if err := e.tasks.Place(ctx, typed.ID, typed.ColumnID, typed.Position); err != nil {
			return err
		}
		res.Placed++
		e.logger.WithFields(logrus.Fields{
			"id":        typed.ID,
			"task_id":   typed.TaskID,
			"column_id": typed.ColumnID,
			"position":  typed.Position,
		}).Debug("place task")
		return nil
	case effects.InsertEffect:
		id, err := e.tasks.Create(ctx, &secondary.TaskRecord{
			TaskID:      typed.TaskID,
			Title:       typed.Title,
			Description: typed.Description,
			Priority:    typed.Priority,
			ColumnID:    typed.ColumnID,
			Position:    typed.Position,
		})
		if err != nil {
			return err
		}
		res.InsertedID = id
		e.logger.WithFields(logrus.Fields{
			"task_id":   typed.TaskID,
			"column_id": typed.ColumnID,
			"position":  typed.Position,
		}).Debug("insert task")
		return nil
	case effects.RemoveEffect:
		n, err := e.tasks.Delete(ctx, typed.ID)
		if err != nil {
			return err
		}
		res.Removed += n
		e.logger.WithFields(logrus.Fields{"id": typed.ID, "task_id": typed.TaskID}).Debug("remove task")
		return nil
	case effects.NoEffect:
		return nil
	case effects.LogEffect:
		e.log(typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) log(eff effects.LogEffect) {
	entry := e.logger.WithFields(logrus.Fields(eff.Fields))
	switch eff.Level {
	case "debug":
		entry.Debug(eff.Message)
	case "warn":
		entry.Warn(eff.Message)
	case "error":
		entry.Error(eff.Message)
	default:
		entry.Info(eff.Message)
	}
}
