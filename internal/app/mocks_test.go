package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockTaskRepository implements secondary.TaskRepository in memory.
type mockTaskRepository struct {
	tasks     map[string]*secondary.TaskRecord
	nextID    int64
	sequence  int64
	shifts    int
	createErr error
	shiftErr  error
	listErr   error
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{
		tasks:    make(map[string]*secondary.TaskRecord),
		nextID:   1,
		sequence: 100,
	}
}

// seed adds an active task directly, bypassing the service, and returns its store id.
func (m *mockTaskRepository) seed(taskID string, columnID int64, position int) int64 {
	id := m.nextID
	m.tasks[taskID] = &secondary.TaskRecord{
		ID:       m.nextID,
		TaskID:   taskID,
		Title:    taskID,
		ColumnID: columnID,
		Position: position,
		Priority: "medium",
		Status:   "active",
	}
	m.nextID++
	return id
}

// byID finds the label under which the row with the given store id is kept.
func (m *mockTaskRepository) byID(id int64) (string, bool) {
	for label, t := range m.tasks {
		if t.ID == id {
			return label, true
		}
	}
	return "", false
}

// order returns the task labels of a column in position order.
func (m *mockTaskRepository) order(columnID int64) []string {
	var col []*secondary.TaskRecord
	for _, t := range m.tasks {
		if t.ColumnID == columnID && t.Status == "active" {
			col = append(col, t)
		}
	}
	sort.Slice(col, func(i, j int) bool { return col[i].Position < col[j].Position })
	ids := make([]string, len(col))
	for i, t := range col {
		ids[i] = fmt.Sprintf("%s@%d", t.TaskID, t.Position)
	}
	return ids
}

func (m *mockTaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	rec := *task
	rec.ID = m.nextID
	rec.Status = "active"
	m.nextID++
	m.tasks[rec.TaskID] = &rec
	return rec.ID, nil
}

func (m *mockTaskRepository) GetByTaskID(ctx context.Context, taskID string) (*secondary.TaskRecord, error) {
	t, ok := m.tasks[taskID]
	if !ok || t.Status != "active" {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.TaskRecord
	for _, t := range m.tasks {
		if t.Status != "active" {
			continue
		}
		if filters.ColumnID != 0 && t.ColumnID != filters.ColumnID {
			continue
		}
		cp := *t
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ColumnID != result[j].ColumnID {
			return result[i].ColumnID < result[j].ColumnID
		}
		return result[i].Position < result[j].Position
	})
	return result, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, taskID string, fields secondary.TaskUpdate) (int64, error) {
	t, ok := m.tasks[taskID]
	if !ok {
		return 0, nil
	}
	if fields.Title != nil {
		t.Title = *fields.Title
	}
	if fields.Description != nil {
		t.Description = *fields.Description
	}
	if fields.Priority != nil {
		t.Priority = *fields.Priority
	}
	return 1, nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, id int64) (int64, error) {
	label, ok := m.byID(id)
	if !ok {
		return 0, nil
	}
	delete(m.tasks, label)
	return 1, nil
}

func (m *mockTaskRepository) MaxPosition(ctx context.Context, columnID int64) (int, error) {
	highest := 0
	for _, t := range m.tasks {
		if t.ColumnID == columnID && t.Status == "active" && t.Position > highest {
			highest = t.Position
		}
	}
	return highest, nil
}

func (m *mockTaskRepository) ShiftPositions(ctx context.Context, columnID int64, from, to, delta int) (int64, error) {
	m.shifts++
	if m.shiftErr != nil {
		return 0, m.shiftErr
	}
	var n int64
	for _, t := range m.tasks {
		if t.ColumnID != columnID || t.Status != "active" || t.Position < from {
			continue
		}
		if to != 0 && t.Position > to {
			continue
		}
		t.Position += delta
		n++
	}
	return n, nil
}

func (m *mockTaskRepository) Place(ctx context.Context, id int64, columnID int64, position int) error {
	label, ok := m.byID(id)
	if !ok {
		return errors.New("no such task")
	}
	t := m.tasks[label]
	t.ColumnID = columnID
	t.Position = position
	return nil
}

func (m *mockTaskRepository) NextSequence(ctx context.Context) (int64, error) {
	m.sequence++
	return m.sequence, nil
}

// mockColumnRepository implements secondary.ColumnRepository.
type mockColumnRepository struct {
	columns []*secondary.ColumnRecord
	locked  [][]int64
}

func newMockColumnRepository() *mockColumnRepository {
	return &mockColumnRepository{columns: []*secondary.ColumnRecord{
		{ID: 1, Name: "To Do", Position: 1, Color: "#6b7280"},
		{ID: 2, Name: "In Progress", Position: 2, Color: "#3b82f6"},
		{ID: 3, Name: "Done", Position: 3, Color: "#10b981"},
	}}
}

func (m *mockColumnRepository) List(ctx context.Context) ([]*secondary.ColumnRecord, error) {
	return m.columns, nil
}

func (m *mockColumnRepository) GetByID(ctx context.Context, id int64) (*secondary.ColumnRecord, error) {
	for _, c := range m.columns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockColumnRepository) Lock(ctx context.Context, ids ...int64) error {
	m.locked = append(m.locked, ids)
	return nil
}

// mockTransactor runs fn directly and counts units of work.
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// mockBoardCache implements secondary.BoardCache.
type mockBoardCache struct {
	snap        *secondary.BoardSnapshot
	gen         int64
	gets        int
	sets        int
	dropped     int
	invalidated int
	getErr      error
	// beforeSet runs once at the start of the next Set.
	beforeSet func()
}

func (m *mockBoardCache) Get(ctx context.Context) (*secondary.BoardSnapshot, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.snap, nil
}

func (m *mockBoardCache) Generation(ctx context.Context) (int64, error) {
	return m.gen, nil
}

func (m *mockBoardCache) Set(ctx context.Context, snap *secondary.BoardSnapshot, gen int64, ttl time.Duration) (bool, error) {
	if hook := m.beforeSet; hook != nil {
		m.beforeSet = nil
		hook()
	}
	if gen != m.gen {
		m.dropped++
		return false, nil
	}
	m.sets++
	m.snap = snap
	return true, nil
}

func (m *mockBoardCache) Invalidate(ctx context.Context) error {
	m.invalidated++
	m.gen++
	m.snap = nil
	return nil
}
