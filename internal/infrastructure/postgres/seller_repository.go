package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
)

var _ repository.SellerRepository = (*SellerRepo)(nil)

// SellerRepo resuelve vendedores.
type SellerRepo struct {
	q Querier
}

// NewSellerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSellerRepository(q Querier) *SellerRepo {
	return &SellerRepo{q: q}
}

// GetByID obtiene el vendedor. Dentro de una tx, FOR KEY SHARE impide que se borre hasta el commit.
func (r *SellerRepo) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	var s entity.Seller
	err := r.q.QueryRow(ctx,
		`SELECT id, name, created_at FROM sellers WHERE id = $1 FOR KEY SHARE`,
		id,
	).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}
	return &s, nil
}

// Upsert da de alta o renombra un vendedor. Las compras ya registradas conservan el nombre anterior.
func (r *SellerRepo) Upsert(ctx context.Context, s *entity.Seller) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sellers (id, name, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		s.ID, s.Name, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert seller: %w", err)
	}
	return nil
}
