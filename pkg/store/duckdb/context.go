package duckdb

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTransaction makes tx the active transaction for store calls made with
// the returned context. Stores that support it execute against tx instead of
// the shared connection.
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTransaction returns the active transaction, or nil when the context
// carries none.
func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
