// Package sqlstore contains database/sql implementations of repository interfaces.
// The same repositories serve SQLite (mattn or modernc driver) and PostgreSQL (pgx).
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/ports/secondary"
)

// querier is the subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// conn returns the transaction carried by ctx, or the pool when there is none.
func conn(ctx context.Context, pool *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return pool
}

// Transactor implements secondary.Transactor over database/sql.
type Transactor struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewTransactor creates a new Transactor.
func NewTransactor(database *sql.DB, dialect db.Dialect) *Transactor {
	return &Transactor{db: database, dialect: dialect}
}

var _ secondary.Transactor = (*Transactor)(nil)

// WithinTx runs fn in a transaction, committing when fn returns nil.
// A ctx already inside a transaction joins it instead of nesting.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	var opts *sql.TxOptions
	if t.dialect == db.Postgres {
		opts = &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	}

	tx, err := t.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
