// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import "fmt"

// Effect is the base interface for all effects.
// Effects represent store operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Unbounded marks an open upper end of a ShiftEffect range.
const Unbounded = 0

// ShiftEffect moves every active task of a column whose position lies in
// [From, To] by Delta. To == Unbounded means "to the end of the column".
type ShiftEffect struct {
	ColumnID int64
	From     int
	To       int
	Delta    int
}

func (e ShiftEffect) EffectType() string { return "shift" }

// Contains reports whether position p falls inside the shifted range.
func (e ShiftEffect) Contains(p int) bool {
	if p < e.From {
		return false
	}
	return e.To == Unbounded || p <= e.To
}

func (e ShiftEffect) String() string {
	upper := "end"
	if e.To != Unbounded {
		upper = fmt.Sprintf("%d", e.To)
	}
	return fmt.Sprintf("shift column %d [%d..%s] by %+d", e.ColumnID, e.From, upper, e.Delta)
}

// PlaceEffect sets a task's column and position and refreshes its update timestamp.
// ID is the store id of the row; labels are not unique on legacy boards.
type PlaceEffect struct {
	ID       int64
	TaskID   string
	ColumnID int64
	Position int
}

func (e PlaceEffect) EffectType() string { return "place" }

// InsertEffect persists a new task at a precomputed slot.
type InsertEffect struct {
	TaskID      string
	Title       string
	Description string
	Priority    string
	ColumnID    int64
	Position    int
}

func (e InsertEffect) EffectType() string { return "insert" }

// RemoveEffect deletes one task row by store id.
type RemoveEffect struct {
	ID     int64
	TaskID string
}

func (e RemoveEffect) EffectType() string { return "remove" }

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }
