package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/seller-catalog-api/internal/application/catalog"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. stock es el stock inicial (opcional, 0 por defecto).
type CreateProductRequest struct {
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price" swaggertype:"string" example:"10.50"`
	Seller   string           `json:"seller"`
	Stock    *int64           `json:"stock"`
	Category string           `json:"category"`
	Brand    string           `json:"brand"`
}

// ToInput convierte la petición en la entrada tipada del coordinador.
func (r CreateProductRequest) ToInput() catalog.CreateProductInput {
	return catalog.CreateProductInput{
		Name:     r.Name,
		Price:    r.Price,
		Seller:   r.Seller,
		Stock:    r.Stock,
		Category: r.Category,
		Brand:    r.Brand,
	}
}

// AddStockRequest entrada para sumar stock. stock es el delta.
type AddStockRequest struct {
	Seller string `json:"seller"`
	Stock  *int64 `json:"stock"`
}

func (r AddStockRequest) ToInput() catalog.AddStockInput {
	return catalog.AddStockInput{Seller: r.Seller, Stock: r.Stock}
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	SellerID   string          `json:"seller_id"`
	CategoryID *string         `json:"category_id"`
	BrandID    *string         `json:"brand_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price" swaggertype:"string"`
	Stock      int64           `json:"stock"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// BulkDeleteRequest ids de productos a borrar.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// TotalStockResponse suma del stock de todos los productos del usuario.
type TotalStockResponse struct {
	TotalStock int64 `json:"total_stock"`
}

func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		SellerID:   p.SellerID,
		CategoryID: p.CategoryID,
		BrandID:    p.BrandID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func ToProductListResponse(list []*entity.Product, limit, offset int) ProductListResponse {
	items := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToProductResponse(p))
	}
	return ProductListResponse{Items: items, Page: PageResponse{Limit: limit, Offset: offset}}
}
