package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/seller-catalog-api/internal/application/dto"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
)

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		want          dto.PageRequest
	}{
		{"por defecto", 0, 0, dto.PageRequest{Limit: 20, Offset: 0}},
		{"tope", 500, 10, dto.PageRequest{Limit: 100, Offset: 10}},
		{"offset negativo", 5, -3, dto.PageRequest{Limit: 5, Offset: 0}},
		{"limit negativo", -1, 0, dto.PageRequest{Limit: 20, Offset: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dto.NewPageRequest(tt.limit, tt.offset))
		})
	}
}

func TestCreateProductRequest_ToInput(t *testing.T) {
	price := decimal.RequireFromString("10")
	stock := int64(5)
	in := dto.CreateProductRequest{Name: "Widget", Price: &price, Seller: "S1", Stock: &stock, Category: "c1"}.ToInput()

	assert.Equal(t, "Widget", in.Name)
	assert.True(t, in.Price.Equal(price))
	assert.Equal(t, int64(5), in.InitialStock())
	assert.Equal(t, "c1", in.Category)
}

func TestToPurchaseListResponse(t *testing.T) {
	p := &entity.Purchase{
		ID: "r1", ProductID: "p1", ProductName: "Widget", SellerName: "Acme", Type: entity.PurchaseTypeInitial,
		Quantity: 5, UnitPrice: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(50), CreatedAt: time.Now(),
	}
	out := dto.ToPurchaseListResponse([]*entity.Purchase{p}, 20, 0)

	assert.Len(t, out.Items, 1)
	assert.Equal(t, "Acme", out.Items[0].SellerName)
	assert.Equal(t, "50", out.Items[0].TotalPrice.String())
	assert.Equal(t, 20, out.Page.Limit)
}
