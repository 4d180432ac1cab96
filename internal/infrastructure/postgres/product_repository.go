package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/seller-catalog-api/internal/domain"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, user_id, seller_id, category_id, brand_id, name, price, stock, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.UserID, product.SellerID, product.CategoryID, product.BrandID,
		product.Name, product.Price, product.Stock, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: seller %s", domain.ErrInvalidReference, product.SellerID)
		case isCheckViolation(err):
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de userID por ID.
func (r *ProductRepo) GetByID(ctx context.Context, userID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND user_id = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// IncrementStock suma delta al stock en una sola sentencia y devuelve la fila resultante.
// El UPDATE toma el lock de la fila: incrementos concurrentes sobre el mismo producto se serializan.
func (r *ProductRepo) IncrementStock(ctx context.Context, userID, id string, delta int64) (*entity.Product, error) {
	query := `
		UPDATE products SET stock = stock + $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, userID, delta))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		if isCheckViolation(err) {
			return nil, fmt.Errorf("%w: el stock resultante sería negativo", domain.ErrConflict)
		}
		if isNumericOutOfRange(err) {
			return nil, fmt.Errorf("%w: stock fuera de rango", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("increment stock: %w", err)
	}
	return p, nil
}

// ListByUser lista productos de userID con paginación.
func (r *ProductRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SumStockByUser suma el stock de todos los productos de userID (0 si no tiene).
func (r *ProductRepo) SumStockByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(stock), 0)::bigint FROM products WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return total, nil
}

// DeleteMany elimina los productos ids de userID. No toca purchases (sin FK hacia products).
func (r *ProductRepo) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(
		&p.ID, &p.UserID, &p.SellerID, &p.CategoryID, &p.BrandID,
		&p.Name, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
