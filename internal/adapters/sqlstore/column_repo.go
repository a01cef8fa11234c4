package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/ports/secondary"
)

// ColumnRepository implements secondary.ColumnRepository.
type ColumnRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewColumnRepository creates a new column repository.
func NewColumnRepository(database *sql.DB, dialect db.Dialect) *ColumnRepository {
	return &ColumnRepository{db: database, dialect: dialect}
}

var _ secondary.ColumnRepository = (*ColumnRepository)(nil)

const columnSelectCols = "id, name, position, color, created_at"

func scanColumn(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ColumnRecord, error) {
	var createdAt sql.NullTime
	record := &secondary.ColumnRecord{}
	if err := scanner.Scan(&record.ID, &record.Name, &record.Position, &record.Color, &createdAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time.Format(time.RFC3339)
	}
	return record, nil
}

// List retrieves all columns ordered by position.
func (r *ColumnRepository) List(ctx context.Context) ([]*secondary.ColumnRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, "SELECT "+columnSelectCols+" FROM columns ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	var columns []*secondary.ColumnRecord
	for rows.Next() {
		record, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, record)
	}
	return columns, rows.Err()
}

// GetByID retrieves a column by id; nil when absent.
func (r *ColumnRepository) GetByID(ctx context.Context, id int64) (*secondary.ColumnRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind("SELECT "+columnSelectCols+" FROM columns WHERE id = ?"), id)

	record, err := scanColumn(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get column: %w", err)
	}
	return record, nil
}

// Lock takes row locks on the given columns for the rest of the transaction.
// Ids are locked in ascending order. SQLite serialises writers on its single
// connection, so there it is a no-op.
func (r *ColumnRepository) Lock(ctx context.Context, ids ...int64) error {
	if r.dialect != db.Postgres || len(ids) == 0 {
		return nil
	}

	query, args := lockStatement(r.dialect, ids)
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to lock columns: %w", err)
	}
	return rows.Close()
}

// lockStatement builds the SELECT ... FOR UPDATE for the distinct ids in
// ascending order, so concurrent writers always lock in the same order.
func lockStatement(dialect db.Dialect, ids []int64) (string, []any) {
	unique := make(map[int64]struct{}, len(ids))
	sorted := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, seen := unique[id]; seen {
			continue
		}
		unique[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(sorted)), ", ")
	args := make([]any, len(sorted))
	for i, id := range sorted {
		args[i] = id
	}
	return dialect.Rebind("SELECT id FROM columns WHERE id IN (" + placeholders + ") ORDER BY id FOR UPDATE"), args
}
