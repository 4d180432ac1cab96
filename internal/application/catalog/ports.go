package catalog

import (
	"context"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
)

// TxRepositories agrupa los repositorios atados a una misma transacción.
type TxRepositories struct {
	Sellers   repository.SellerRepository
	Products  repository.ProductRepository
	Purchases repository.PurchaseRepository
	Outbox    repository.OutboxRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a esa tx.
// Hace Commit si fn devuelve nil y Rollback en cualquier otro caso; el error de fn se devuelve tal cual.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepositories) error) error
}

// ReceiptRenderer genera la representación PDF de una entrada del libro de compras.
type ReceiptRenderer interface {
	RenderPurchaseReceipt(ctx context.Context, purchase *entity.Purchase) ([]byte, error)
}
