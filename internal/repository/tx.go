package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-service/internal/db"
	"github.com/nikolayk812/cart-service/internal/port"
	"golang.org/x/text/currency"
)

// withTx runs fn in a new transaction, or directly on q when the repository
// was built around an outer transaction (pool == nil).
func withTx[T any](ctx context.Context, pool *pgxpool.Pool, q *db.Queries, fn func(q *db.Queries) (T, error)) (_ T, txErr error) {
	var zero T

	if pool == nil {
		return fn(q)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr == nil {
			return
		}
		rollbackErr := tx.Rollback(ctx)
		if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
		}
	}()

	result, err := fn(q.WithTx(tx))
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("tx.Commit: %w", err)
	}

	return result, nil
}

type transactor struct {
	pool     *pgxpool.Pool
	currency currency.Unit
}

func NewTransactor(pool *pgxpool.Pool, cur currency.Unit) port.Transactor {
	return &transactor{
		pool:     pool,
		currency: cur,
	}
}

func (t *transactor) InTx(ctx context.Context, fn func(carts port.CartRepository, products port.ProductRepository) error) error {
	err := pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(NewCartWithTx(tx, t.currency), NewProductWithTx(tx))
	})
	if err != nil {
		return fmt.Errorf("pgx.BeginFunc: %w", err)
	}

	return nil
}
