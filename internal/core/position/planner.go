// Package position contains the ordering rules for tasks inside board columns.
// This is part of the Functional Core - no I/O, only pure functions.
//
// Every column keeps its active tasks at positions 1..N with no gaps and no
// duplicates. The planners below turn a requested mutation into the ordered
// list of effects that preserves that property; the shell executes them in
// order inside one transaction.
package position

import (
	"github.com/example/taskboard/internal/core/effects"
)

// InsertPlanInput contains pre-fetched data for appending a task to a column.
type InsertPlanInput struct {
	TaskID      string
	Title       string
	Description string
	Priority    string
	ColumnID    int64
	ColumnMax   int // highest active position in the column, 0 when empty
}

// InsertPlan represents the planned effects for creating a task.
type InsertPlan struct {
	Position int
	Insert   effects.InsertEffect
}

// Effects returns all effects as a flat slice for execution.
func (p InsertPlan) Effects() []effects.Effect {
	return []effects.Effect{p.Insert}
}

// GenerateInsertPlan appends the task after the last active task of the column.
// Appending never opens a gap, so no other row changes.
func GenerateInsertPlan(input InsertPlanInput) InsertPlan {
	next := NextPosition(input.ColumnMax)
	return InsertPlan{
		Position: next,
		Insert: effects.InsertEffect{
			TaskID:      input.TaskID,
			Title:       input.Title,
			Description: input.Description,
			Priority:    input.Priority,
			ColumnID:    input.ColumnID,
			Position:    next,
		},
	}
}

// NextPosition returns the append slot for a column whose highest position is columnMax.
func NextPosition(columnMax int) int {
	if columnMax < 0 {
		columnMax = 0
	}
	return columnMax + 1
}

// MovePlanInput contains pre-fetched data for moving a task.
type MovePlanInput struct {
	ID           int64 // store id of the moved row
	TaskID       string
	FromColumnID int64
	FromPosition int
	ToColumnID   int64
	// ToPosition is the requested slot; 0 means the caller did not ask for one.
	ToPosition int
	// TargetMax is the highest active position in the target column before the move.
	// For a same-column move this is the source column's max.
	TargetMax int
}

// MovePlan represents the planned effects for moving a task.
type MovePlan struct {
	TaskID string
	// InPlace is set when the request leaves the task exactly where it is.
	InPlace  bool
	Shifts   []effects.ShiftEffect
	Place    *effects.PlaceEffect
	Position int
	// Clamped is set when the requested slot lay past the end of the column.
	Clamped *effects.LogEffect
}

// Effects returns all effects as a flat slice for execution.
// Shifts always precede the placement of the moved task.
func (p MovePlan) Effects() []effects.Effect {
	if p.InPlace {
		return []effects.Effect{effects.NoEffect{}}
	}
	result := make([]effects.Effect, 0, len(p.Shifts)+2)
	for _, s := range p.Shifts {
		result = append(result, s)
	}
	if p.Place != nil {
		result = append(result, *p.Place)
	}
	if p.Clamped != nil {
		result = append(result, *p.Clamped)
	}
	return result
}

// GenerateMovePlan creates a plan for moving a task within or across columns.
// This is a pure function - all input data must be pre-fetched.
func GenerateMovePlan(input MovePlanInput) MovePlan {
	if input.FromColumnID == input.ToColumnID {
		return sameColumnPlan(input)
	}
	return crossColumnPlan(input)
}

func sameColumnPlan(input MovePlanInput) MovePlan {
	plan := MovePlan{TaskID: input.TaskID, Position: input.FromPosition}
	if input.ToPosition == 0 {
		plan.InPlace = true
		return plan
	}

	// Inside its own column a task can land anywhere in 1..N.
	target := clamp(input.ToPosition, max(input.TargetMax, input.FromPosition))
	if target == input.FromPosition {
		plan.InPlace = true
		return plan
	}

	col := input.FromColumnID
	switch {
	case target > input.FromPosition:
		plan.Shifts = []effects.ShiftEffect{{
			ColumnID: col, From: input.FromPosition + 1, To: target, Delta: -1,
		}}
	default:
		plan.Shifts = []effects.ShiftEffect{{
			ColumnID: col, From: target, To: input.FromPosition - 1, Delta: +1,
		}}
	}
	plan.Position = target
	plan.Place = &effects.PlaceEffect{ID: input.ID, TaskID: input.TaskID, ColumnID: col, Position: target}
	plan.Clamped = clampNote(input, target)
	return plan
}

func crossColumnPlan(input MovePlanInput) MovePlan {
	plan := MovePlan{TaskID: input.TaskID}

	// Close the gap in the source column using the pre-move position.
	plan.Shifts = append(plan.Shifts, effects.ShiftEffect{
		ColumnID: input.FromColumnID,
		From:     input.FromPosition + 1,
		To:       effects.Unbounded,
		Delta:    -1,
	})

	appendSlot := NextPosition(input.TargetMax)
	target := appendSlot
	if input.ToPosition != 0 {
		target = clamp(input.ToPosition, appendSlot)
	}
	if target < appendSlot {
		plan.Shifts = append(plan.Shifts, effects.ShiftEffect{
			ColumnID: input.ToColumnID,
			From:     target,
			To:       effects.Unbounded,
			Delta:    +1,
		})
	}

	plan.Position = target
	plan.Place = &effects.PlaceEffect{ID: input.ID, TaskID: input.TaskID, ColumnID: input.ToColumnID, Position: target}
	plan.Clamped = clampNote(input, target)
	return plan
}

// DeletePlanInput contains pre-fetched data for deleting a task.
type DeletePlanInput struct {
	ID       int64 // store id of the deleted row
	TaskID   string
	ColumnID int64
	Position int
}

// DeletePlan represents the planned effects for deleting a task.
type DeletePlan struct {
	Remove  effects.RemoveEffect
	Compact effects.ShiftEffect
}

// Effects returns the removal followed by the compaction of its column.
func (p DeletePlan) Effects() []effects.Effect {
	return []effects.Effect{p.Remove, p.Compact}
}

// GenerateDeletePlan removes the task and closes the gap it leaves behind.
func GenerateDeletePlan(input DeletePlanInput) DeletePlan {
	return DeletePlan{
		Remove: effects.RemoveEffect{ID: input.ID, TaskID: input.TaskID},
		Compact: effects.ShiftEffect{
			ColumnID: input.ColumnID,
			From:     input.Position + 1,
			To:       effects.Unbounded,
			Delta:    -1,
		},
	}
}

// clampNote describes a move whose requested slot was past the end of the column.
func clampNote(input MovePlanInput, target int) *effects.LogEffect {
	if input.ToPosition <= target {
		return nil
	}
	return &effects.LogEffect{
		Level:   "debug",
		Message: "move position clamped to end of column",
		Fields: map[string]any{
			"task_id":   input.TaskID,
			"column_id": input.ToColumnID,
			"requested": input.ToPosition,
			"position":  target,
		},
	}
}

// clamp bounds a requested slot to 1..limit.
func clamp(p, limit int) int {
	if limit < 1 {
		limit = 1
	}
	if p < 1 {
		return 1
	}
	if p > limit {
		return limit
	}
	return p
}
