package repository

import (
	"context"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
)

// SellerRepository resuelve vendedores por ID. Devuelve (nil, nil) si no existe.
type SellerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Seller, error)
}
