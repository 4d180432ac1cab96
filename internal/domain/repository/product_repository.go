package repository

import (
	"context"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, userID, id string) (*entity.Product, error)
	// IncrementStock suma delta al stock en el motor (stock = stock + delta) y devuelve la fila actualizada.
	// La fila queda bloqueada hasta el fin de la transacción.
	IncrementStock(ctx context.Context, userID, id string, delta int64) (*entity.Product, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Product, error)
	SumStockByUser(ctx context.Context, userID string) (int64, error)
	DeleteMany(ctx context.Context, userID string, ids []string) (int64, error)
}
