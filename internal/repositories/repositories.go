package repositories

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx. Repositories are constructed over
// either, so services can run multi-step mutations inside one transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
