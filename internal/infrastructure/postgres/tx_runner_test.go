package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-catalog-api/internal/application/catalog"
	"github.com/jhoicas/seller-catalog-api/internal/domain"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
	"github.com/jhoicas/seller-catalog-api/internal/infrastructure/postgres"
)

func TestTxRunner_CommitsOnSuccess(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectCommit()

	called := false
	err := postgres.NewTxRunner(mock).Run(context.Background(), func(repos catalog.TxRepositories) error {
		called = true
		assert.NotNil(t, repos.Sellers)
		assert.NotNil(t, repos.Products)
		assert.NotNil(t, repos.Purchases)
		assert.NotNil(t, repos.Outbox)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectRollback()

	err := postgres.NewTxRunner(mock).Run(context.Background(), func(catalog.TxRepositories) error {
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
}

func TestTxRunner_CommitFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectCommit().WillReturnError(errors.New("could not serialize access"))

	err := postgres.NewTxRunner(mock).RunOutbox(context.Background(), func(repository.OutboxRepository) error {
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit transaction")
}

func TestTxRunner_BeginFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted}).WillReturnError(errBoom)

	err := postgres.NewTxRunner(mock).Run(context.Background(), func(catalog.TxRepositories) error {
		t.Fatal("fn no debe ejecutarse sin transacción")
		return nil
	})
	assert.ErrorIs(t, err, errBoom)
}

func TestTxRunner_SerializationFailureIsConflict(t *testing.T) {
	t.Run("en la sentencia", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		mock.ExpectRollback()

		err := postgres.NewTxRunner(mock).Run(context.Background(), func(catalog.TxRepositories) error {
			return fmt.Errorf("increment stock: %w", &pgconn.PgError{Code: "40P01"})
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("en el commit", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		mock.ExpectCommit().WillReturnError(&pgconn.PgError{Code: "40001"})

		err := postgres.NewTxRunner(mock).Run(context.Background(), func(catalog.TxRepositories) error {
			return nil
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Contains(t, err.Error(), "commit transaction")
	})

	t.Run("otros errores no se reclasifican", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		mock.ExpectRollback()

		err := postgres.NewTxRunner(mock).Run(context.Background(), func(catalog.TxRepositories) error {
			return errBoom
		})
		assert.NotErrorIs(t, err, domain.ErrConflict)
	})
}
