package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// insertReturningID runs an INSERT and reports the assigned integer key.
// Postgres needs RETURNING; the sqlite driver reports LastInsertId.
func insertReturningID(ctx context.Context, db *sqlx.DB, query, pkColumn string, args ...interface{}) (int64, error) {
	if db.DriverName() == "postgres" {
		var id int64
		if err := db.GetContext(ctx, &id, db.Rebind(query+" RETURNING "+pkColumn), args...); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// inTx runs fn inside a transaction, rolling back on error so a partial
// cascade is never observable.
func inTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
