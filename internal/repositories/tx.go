package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// withTx runs fn inside one transaction. Any error from fn, or a failed
// commit, leaves nothing applied.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
