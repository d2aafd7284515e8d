package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/willowtrellis/farmstand-api/internal/application/catalog"
	"github.com/willowtrellis/farmstand-api/internal/application/order"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

var (
	_ catalog.TxRunner = (*TxRunner)(nil)
	_ order.TxRunner   = (*OrderTxRunner)(nil)
)

// TxRunner runs catalog reconciliation inside a PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run begins a transaction, hands fn a product repository bound to it and commits when fn succeeds.
func (r *TxRunner) Run(ctx context.Context, fn func(products repository.ProductRepository) error) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx))
	})
}

// OrderTxRunner runs checkout inside a PostgreSQL transaction.
type OrderTxRunner struct {
	pool *pgxpool.Pool
}

// NewOrderTxRunner builds the runner over the pool.
func NewOrderTxRunner(pool *pgxpool.Pool) *OrderTxRunner {
	return &OrderTxRunner{pool: pool}
}

// Run hands fn product and order repositories bound to one transaction.
func (r *OrderTxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	orders repository.OrderRepository,
) error) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx), NewOrderRepository(tx))
	})
}

func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
