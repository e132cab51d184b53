package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type ctxKey int

const txKey ctxKey = iota

// WithTx returns a context carrying an open transaction. Repositories route
// their queries through it when present, so multi-statement operations can
// share one transaction without changing repository signatures.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// TxFromContext returns the transaction attached to ctx, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}
