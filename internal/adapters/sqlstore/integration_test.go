package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"math/rand"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/adapters/sqlstore"
	"github.com/example/taskboard/internal/app"
	"github.com/example/taskboard/internal/core/position"
	"github.com/example/taskboard/internal/core/task"
	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/ports/primary"
)

// Integration tests run the board service against a real SQL store.

func newIntegrationService(t *testing.T, testDB *sql.DB) *app.BoardServiceImpl {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	taskRepo := sqlstore.NewTaskRepository(testDB, db.SQLite)
	return app.NewBoardService(
		taskRepo,
		sqlstore.NewColumnRepository(testDB, db.SQLite),
		sqlstore.NewTransactor(testDB, db.SQLite),
		nil,
		app.NewEffectExecutor(taskRepo, logger),
		app.BoardServiceOptions{IDPrefix: "DEV", Logger: logger},
	)
}

func assertDense(t *testing.T, testDB *sql.DB) {
	t.Helper()
	for col := int64(1); col <= 4; col++ {
		var slots []position.Slot
		for id, pos := range positionsOf(t, testDB, col) {
			slots = append(slots, position.Slot{TaskID: id, Position: pos})
		}
		if v, ok := position.CheckColumn(col, slots); !ok {
			t.Fatalf("dense invariant broken: %s", v)
		}
	}
}

func TestIntegration_CreateMoveDelete(t *testing.T) {
	testDB := setupTestDB(t)
	service := newIntegrationService(t, testDB)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		resp, err := service.CreateTask(ctx, primary.CreateTaskRequest{Title: title, ColumnID: 1})
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		ids = append(ids, resp.TaskID)
	}
	if ids[0] != "DEV-101" || ids[2] != "DEV-103" {
		t.Fatalf("ids = %v", ids)
	}

	pos := 1
	resp, err := service.MoveTask(ctx, primary.MoveTaskRequest{TaskID: "DEV-103", NewColumnID: 1, NewPosition: &pos})
	if err != nil {
		t.Fatalf("MoveTask failed: %v", err)
	}
	if resp.Message != primary.MessageMoved {
		t.Errorf("message = %q", resp.Message)
	}
	want := map[string]int{"DEV-103": 1, "DEV-101": 2, "DEV-102": 3}
	for id, p := range positionsOf(t, testDB, 1) {
		if want[id] != p {
			t.Errorf("%s at %d, want %d", id, p, want[id])
		}
	}

	if _, err := service.MoveTask(ctx, primary.MoveTaskRequest{TaskID: "DEV-101", NewColumnID: 2}); err != nil {
		t.Fatalf("MoveTask failed: %v", err)
	}
	if _, err := service.DeleteTask(ctx, "DEV-103"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	assertDense(t, testDB)

	b, err := service.GetBoard(ctx)
	if err != nil {
		t.Fatalf("GetBoard failed: %v", err)
	}
	if len(b.Columns) != 4 {
		t.Fatalf("board columns = %d", len(b.Columns))
	}
	if got := b.Columns[0].Tasks; len(got) != 1 || got[0].TaskID != "DEV-102" || got[0].Position != 1 {
		t.Errorf("To Do = %+v", got)
	}
	if got := b.Columns[1].Tasks; len(got) != 1 || got[0].TaskID != "DEV-101" || got[0].ColumnName != "In Progress" {
		t.Errorf("In Progress = %+v", got)
	}
	if b.Columns[3].Tasks == nil {
		t.Error("empty column must have a non-nil task list")
	}
}

func TestIntegration_IdentifiersNeverReused(t *testing.T) {
	testDB := setupTestDB(t)
	service := newIntegrationService(t, testDB)
	ctx := context.Background()

	first, err := service.CreateTask(ctx, primary.CreateTaskRequest{Title: "a", ColumnID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := service.DeleteTask(ctx, first.TaskID); err != nil {
		t.Fatal(err)
	}
	second, err := service.CreateTask(ctx, primary.CreateTaskRequest{Title: "b", ColumnID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if second.TaskID == first.TaskID {
		t.Errorf("identifier %s reused after delete", second.TaskID)
	}
}

func TestIntegration_NotFoundLeavesBoardUntouched(t *testing.T) {
	testDB := setupTestDB(t)
	service := newIntegrationService(t, testDB)
	ctx := context.Background()
	seedTask(t, testDB, "DEV-101", 1, 1)
	seedTask(t, testDB, "DEV-102", 1, 2)

	_, err := service.MoveTask(ctx, primary.MoveTaskRequest{TaskID: "DEV-404", NewColumnID: 1})
	if !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	_, err = service.DeleteTask(ctx, "DEV-404")
	if !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	got := positionsOf(t, testDB, 1)
	if got["DEV-101"] != 1 || got["DEV-102"] != 2 {
		t.Errorf("positions changed: %v", got)
	}
}

func TestIntegration_RandomOperationsStayDense(t *testing.T) {
	testDB := setupTestDB(t)
	service := newIntegrationService(t, testDB)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	var live []string
	for step := 0; step < 300; step++ {
		switch op := rng.Intn(10); {
		case op < 4 || len(live) == 0:
			resp, err := service.CreateTask(ctx, primary.CreateTaskRequest{
				Title:    "task",
				ColumnID: int64(rng.Intn(4) + 1),
			})
			if err != nil {
				t.Fatalf("step %d: CreateTask: %v", step, err)
			}
			live = append(live, resp.TaskID)
		case op < 8:
			req := primary.MoveTaskRequest{
				TaskID:      live[rng.Intn(len(live))],
				NewColumnID: int64(rng.Intn(4) + 1),
			}
			if rng.Intn(3) > 0 {
				p := rng.Intn(8) + 1
				req.NewPosition = &p
			}
			if _, err := service.MoveTask(ctx, req); err != nil {
				t.Fatalf("step %d: MoveTask: %v", step, err)
			}
		default:
			i := rng.Intn(len(live))
			if _, err := service.DeleteTask(ctx, live[i]); err != nil {
				t.Fatalf("step %d: DeleteTask: %v", step, err)
			}
			live = append(live[:i], live[i+1:]...)
		}
		assertDense(t, testDB)
	}

	issues, err := service.CheckPositions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("CheckPositions reported %+v", issues)
	}
}

func TestIntegration_RepairPositions(t *testing.T) {
	testDB := setupTestDB(t)
	service := newIntegrationService(t, testDB)
	ctx := context.Background()
	seedTask(t, testDB, "DEV-101", 1, 2)
	seedTask(t, testDB, "DEV-102", 1, 5)
	seedTask(t, testDB, "DEV-103", 1, 5)

	placed, err := service.RepairPositions(ctx)
	if err != nil {
		t.Fatalf("RepairPositions failed: %v", err)
	}
	if placed != 3 {
		t.Errorf("placed = %d, want 3", placed)
	}
	want := map[string]int{"DEV-101": 1, "DEV-102": 2, "DEV-103": 3}
	for id, p := range positionsOf(t, testDB, 1) {
		if want[id] != p {
			t.Errorf("%s at %d, want %d", id, p, want[id])
		}
	}
}

// rowPositions returns store id -> position for the active tasks of a column.
func rowPositions(t *testing.T, testDB *sql.DB, columnID int64) map[int64]int {
	t.Helper()
	rows, err := testDB.Query("SELECT id, position FROM tasks WHERE column_id = ? AND status = 'active'", columnID)
	if err != nil {
		t.Fatalf("failed to read positions: %v", err)
	}
	defer rows.Close()

	result := make(map[int64]int)
	for rows.Next() {
		var id int64
		var pos int
		if err := rows.Scan(&id, &pos); err != nil {
			t.Fatalf("failed to scan position: %v", err)
		}
		result[id] = pos
	}
	return result
}

func TestIntegration_DuplicateLabels(t *testing.T) {
	ctx := context.Background()

	t.Run("delete removes one row and compacts", func(t *testing.T) {
		testDB := setupTestDB(t)
		service := newIntegrationService(t, testDB)
		first := seedTask(t, testDB, "DEV-101", 1, 1)
		second := seedTask(t, testDB, "DEV-101", 1, 2)
		third := seedTask(t, testDB, "DEV-102", 1, 3)

		resp, err := service.DeleteTask(ctx, "DEV-101")
		if err != nil {
			t.Fatalf("DeleteTask failed: %v", err)
		}
		if resp.Changes != 1 {
			t.Errorf("changes = %d, want 1", resp.Changes)
		}
		want := map[int64]int{second: 1, third: 2}
		if got := rowPositions(t, testDB, 1); !reflect.DeepEqual(got, want) {
			t.Errorf("positions = %v, want %v (row %d deleted)", got, want, first)
		}

		issues, err := service.CheckPositions(ctx)
		if err != nil {
			t.Fatalf("CheckPositions failed: %v", err)
		}
		if len(issues) != 0 {
			t.Errorf("issues = %+v", issues)
		}
	})

	t.Run("move places only the resolved row", func(t *testing.T) {
		testDB := setupTestDB(t)
		service := newIntegrationService(t, testDB)
		first := seedTask(t, testDB, "DEV-101", 1, 1)
		second := seedTask(t, testDB, "DEV-101", 1, 2)

		if _, err := service.MoveTask(ctx, primary.MoveTaskRequest{TaskID: "DEV-101", NewColumnID: 2}); err != nil {
			t.Fatalf("MoveTask failed: %v", err)
		}
		if got, want := rowPositions(t, testDB, 1), map[int64]int{second: 1}; !reflect.DeepEqual(got, want) {
			t.Errorf("column 1 = %v, want %v", got, want)
		}
		if got, want := rowPositions(t, testDB, 2), map[int64]int{first: 1}; !reflect.DeepEqual(got, want) {
			t.Errorf("column 2 = %v, want %v", got, want)
		}
	})

	t.Run("repair renumbers each row", func(t *testing.T) {
		testDB := setupTestDB(t)
		service := newIntegrationService(t, testDB)
		first := seedTask(t, testDB, "DEV-101", 1, 2)
		second := seedTask(t, testDB, "DEV-101", 1, 2)
		third := seedTask(t, testDB, "DEV-102", 1, 5)

		if _, err := service.RepairPositions(ctx); err != nil {
			t.Fatalf("RepairPositions failed: %v", err)
		}
		want := map[int64]int{first: 1, second: 2, third: 3}
		if got := rowPositions(t, testDB, 1); !reflect.DeepEqual(got, want) {
			t.Errorf("positions = %v, want %v", got, want)
		}
	})
}

func TestIntegration_PureGoDriver(t *testing.T) {
	testDB, dialect, err := db.Open(context.Background(), db.DriverSQLite, ":memory:", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer testDB.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	taskRepo := sqlstore.NewTaskRepository(testDB, dialect)
	service := app.NewBoardService(
		taskRepo,
		sqlstore.NewColumnRepository(testDB, dialect),
		sqlstore.NewTransactor(testDB, dialect),
		nil,
		app.NewEffectExecutor(taskRepo, logger),
		app.BoardServiceOptions{Logger: logger},
	)
	ctx := context.Background()

	resp, err := service.CreateTask(ctx, primary.CreateTaskRequest{Title: "pure go", ColumnID: 1})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if resp.TaskID != "DEV-101" {
		t.Errorf("task id = %s, want DEV-101", resp.TaskID)
	}

	got, err := service.GetTask(ctx, resp.TaskID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.ColumnName != "To Do" || got.Position != 1 {
		t.Errorf("task = %+v", got)
	}
}
