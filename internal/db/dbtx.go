package db

import (
	"context"
	"database/sql"
)

// DBTX is the slice of database/sql that *sql.DB and *sql.Tx share. Every
// repository is written against it, so the same repository type serves
// both standalone calls and the tx-scoped instances a UnitOfWork hands out.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
