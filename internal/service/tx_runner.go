package service

import (
	"context"

	"edubank-server/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner abstracts transaction management so services can be unit-tested
// without a live pool.
type TxRunner interface {
	// WithTx runs fn inside a transaction, passing the transactional querier.
	WithTx(ctx context.Context, fn func(q repository.DBTX) error) error
	// Querier returns a non-transactional querier for read-only paths.
	Querier() repository.DBTX
}

var _ TxRunner = (*pgxTxRunner)(nil)

type pgxTxRunner struct {
	pool *pgxpool.Pool
}

// NewPgxTxRunner wraps a pgx pool as a TxRunner.
func NewPgxTxRunner(pool *pgxpool.Pool) TxRunner {
	return &pgxTxRunner{pool: pool}
}

func (r *pgxTxRunner) WithTx(ctx context.Context, fn func(q repository.DBTX) error) error {
	return WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(tx)
	})
}

func (r *pgxTxRunner) Querier() repository.DBTX {
	return r.pool
}
