package repository

import (
	"context"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
)

// PurchaseRepository define el puerto del libro de compras. Solo inserta y lee: no hay Update ni Delete.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, userID, id string) (*entity.Purchase, error)
	ListByProduct(ctx context.Context, userID, productID string, limit, offset int) ([]*entity.Purchase, error)
}
