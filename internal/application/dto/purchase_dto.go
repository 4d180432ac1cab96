package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
)

// PurchaseResponse entrada del libro de compras.
type PurchaseResponse struct {
	ID          string          `json:"id"`
	SellerID    string          `json:"seller_id"`
	SellerName  string          `json:"seller_name"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Type        string          `json:"type"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
	TotalPrice  decimal.Decimal `json:"total_price" swaggertype:"string"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

func ToPurchaseResponse(p *entity.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:          p.ID,
		SellerID:    p.SellerID,
		SellerName:  p.SellerName,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Type:        p.Type,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice,
		TotalPrice:  p.TotalPrice,
		CreatedAt:   p.CreatedAt,
	}
}

func ToPurchaseListResponse(list []*entity.Purchase, limit, offset int) PurchaseListResponse {
	items := make([]PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToPurchaseResponse(p))
	}
	return PurchaseListResponse{Items: items, Page: PageResponse{Limit: limit, Offset: offset}}
}
