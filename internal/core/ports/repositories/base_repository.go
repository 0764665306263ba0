package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager opens and settles database transactions for callers that need
// several repository calls to share one row lock (e.g. crediting a payment).
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)

	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback is safe to call after Commit; a finished transaction is not an error.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
