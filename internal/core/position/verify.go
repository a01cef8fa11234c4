package position

import (
	"fmt"
	"sort"

	"github.com/example/taskboard/internal/core/effects"
)

// Slot is one active task's place in a column, as read from the store.
type Slot struct {
	ID       int64 // store id
	TaskID   string
	Position int
}

// Violation describes a column whose positions are not exactly 1..N.
type Violation struct {
	ColumnID   int64
	Duplicates []int
	Missing    []int
	OutOfRange []int
}

func (v Violation) String() string {
	return fmt.Sprintf("column %d: duplicates=%v missing=%v out_of_range=%v",
		v.ColumnID, v.Duplicates, v.Missing, v.OutOfRange)
}

// CheckColumn reports whether the slots of one column form 1..N.
// ok is false when any position is duplicated, missing or out of range.
func CheckColumn(columnID int64, slots []Slot) (Violation, bool) {
	n := len(slots)
	seen := make(map[int]int, n)
	v := Violation{ColumnID: columnID}

	for _, s := range slots {
		if s.Position < 1 || s.Position > n {
			v.OutOfRange = append(v.OutOfRange, s.Position)
			continue
		}
		seen[s.Position]++
		if seen[s.Position] == 2 {
			v.Duplicates = append(v.Duplicates, s.Position)
		}
	}
	for p := 1; p <= n; p++ {
		if seen[p] == 0 {
			v.Missing = append(v.Missing, p)
		}
	}

	ok := len(v.Duplicates) == 0 && len(v.Missing) == 0 && len(v.OutOfRange) == 0
	return v, ok
}

// GenerateRenumberPlan rewrites a column to 1..N keeping the current relative
// order. Ties are broken by label, then store id, so the result is deterministic.
// Tasks already in their final slot produce no effect.
func GenerateRenumberPlan(columnID int64, slots []Slot) []effects.Effect {
	ordered := make([]Slot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		if ordered[i].TaskID != ordered[j].TaskID {
			return ordered[i].TaskID < ordered[j].TaskID
		}
		return ordered[i].ID < ordered[j].ID
	})

	var result []effects.Effect
	for i, s := range ordered {
		if s.Position == i+1 {
			continue
		}
		result = append(result, effects.PlaceEffect{ID: s.ID, TaskID: s.TaskID, ColumnID: columnID, Position: i + 1})
	}
	return result
}
