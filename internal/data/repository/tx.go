package repository

import (
	"context"

	"media-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
)

// withTx runs fn in a transaction, committing on success and rolling back
// exactly once on failure.
func withTx(ctx context.Context, db database.PgxIface, fn func(pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
