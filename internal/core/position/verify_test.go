package position

import (
	"testing"

	"github.com/example/taskboard/internal/core/effects"
)

func TestCheckColumn(t *testing.T) {
	tests := []struct {
		name   string
		slots  []Slot
		wantOK bool
	}{
		{name: "empty column", slots: nil, wantOK: true},
		{name: "dense", slots: []Slot{{TaskID: "a", Position: 2}, {TaskID: "b", Position: 1}, {TaskID: "c", Position: 3}}, wantOK: true},
		{name: "gap", slots: []Slot{{TaskID: "a", Position: 1}, {TaskID: "b", Position: 3}}, wantOK: false},
		{name: "duplicate", slots: []Slot{{TaskID: "a", Position: 1}, {TaskID: "b", Position: 1}}, wantOK: false},
		{name: "zero position", slots: []Slot{{TaskID: "a", Position: 0}}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := CheckColumn(1, tt.slots)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v (%s)", ok, tt.wantOK, v)
			}
		})
	}
}

func TestGenerateRenumberPlan(t *testing.T) {
	slots := []Slot{{TaskID: "c", Position: 7}, {TaskID: "a", Position: 2}, {TaskID: "b", Position: 2}, {TaskID: "d", Position: 4}}
	effs := GenerateRenumberPlan(5, slots)

	got := map[string]int{}
	for _, e := range effs {
		place, ok := e.(effects.PlaceEffect)
		if !ok {
			t.Fatalf("unexpected effect %T", e)
		}
		if place.ColumnID != 5 {
			t.Errorf("placed into column %d, want 5", place.ColumnID)
		}
		got[place.TaskID] = place.Position
	}

	// a and b tie at 2; a sorts first and lands on 1, b stays on 2.
	want := map[string]int{"a": 1, "d": 3, "c": 4}
	for id, pos := range want {
		if got[id] != pos {
			t.Errorf("%s placed at %d, want %d", id, got[id], pos)
		}
	}
	if _, moved := got["b"]; moved {
		t.Errorf("b already sits at 2 and must not be rewritten")
	}
}

func TestGenerateRenumberPlan_DuplicateLabels(t *testing.T) {
	// Two rows share a label; each must be placed by its own store id.
	slots := []Slot{
		{ID: 9, TaskID: "DEV-101", Position: 2},
		{ID: 4, TaskID: "DEV-101", Position: 2},
		{ID: 5, TaskID: "DEV-102", Position: 5},
	}
	effs := GenerateRenumberPlan(1, slots)

	got := map[int64]int{}
	for _, e := range effs {
		place := e.(effects.PlaceEffect)
		got[place.ID] = place.Position
	}
	want := map[int64]int{4: 1, 5: 3}
	if len(got) != len(want) {
		t.Fatalf("placed %v, want %v", got, want)
	}
	for id, pos := range want {
		if got[id] != pos {
			t.Errorf("row %d placed at %d, want %d", id, got[id], pos)
		}
	}
}
