package db

import (
	"context"
	"database/sql"
)

type txKey struct{}

// Queryable is the subset of *sql.DB and *sql.Tx the repositories use, so a
// repository method transparently joins an enclosing transaction.
type Queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTxContext returns a context carrying the transaction.
func WithTxContext(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction stashed in ctx, or nil.
func TxFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// Conn resolves the Queryable for ctx: the enclosing transaction when one is
// present, otherwise the store's handle.
func (s *Store) Conn(ctx context.Context) Queryable {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}
