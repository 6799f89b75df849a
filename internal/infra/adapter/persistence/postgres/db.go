// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DB is the subset of *sql.DB used by the repositories. Both *sql.DB and
// *circuitbreaker.DBCircuitBreaker satisfy it.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// withTx runs fn in a transaction, committing on success and rolling back
// on any error.
func withTx(ctx context.Context, db DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// inClause returns "$start, $start+1, ..." and the ids as query args.
func inClause(ids []int64, start int) (string, []interface{}) {
	marks := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		marks[i] = fmt.Sprintf("$%d", start+i)
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
