package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/seller-catalog-api/internal/application/catalog"
	"github.com/jhoicas/seller-catalog-api/internal/application/events"
	"github.com/jhoicas/seller-catalog-api/internal/domain"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
)

var (
	_ catalog.TxRunner      = (*TxRunner)(nil)
	_ events.OutboxTxRunner = (*TxRunner)(nil)
)

// Beginner abre transacciones. Lo cumplen *pgxpool.Pool y pgxmock.
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
type TxRunner struct {
	db Beginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db Beginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos catalog.TxRepositories) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(catalog.TxRepositories{
			Sellers:   NewSellerRepository(tx),
			Products:  NewProductRepository(tx),
			Purchases: NewPurchaseRepository(tx),
			Outbox:    NewOutboxRepository(tx),
		})
	})
}

// RunOutbox inicia una transacción con el repo de outbox (para el relay de eventos).
func (r *TxRunner) RunOutbox(ctx context.Context, fn func(outbox repository.OutboxRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOutboxRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		err = conflictOrSelf(err)
		// Rollback con un contexto propio: ctx puede estar cancelado justamente por el fallo.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return conflictOrSelf(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// conflictOrSelf marca como ErrConflict los fallos de serialización y deadlocks.
func conflictOrSelf(err error) error {
	if isRetryable(err) {
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	return err
}
