package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
)

// LedgerEntry datos de un evento de stock a registrar en el libro de compras.
type LedgerEntry struct {
	UserID   string
	Type     string
	Quantity int64
	Seller   *entity.Seller
	Product  *entity.Product // estado del producto ya mutado en la misma tx
}

// PurchaseRecorded payload del evento publicado vía outbox por cada Purchase confirmada.
type PurchaseRecorded struct {
	PurchaseID  string          `json:"purchase_id"`
	UserID      string          `json:"user_id"`
	SellerID    string          `json:"seller_id"`
	SellerName  string          `json:"seller_name"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Type        string          `json:"type"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	StockAfter  int64           `json:"stock_after"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// LedgerWriter deriva y agrega entradas al libro de compras dentro de la transacción del llamador.
// Nunca actualiza ni borra entradas existentes.
type LedgerWriter struct {
	now func() time.Time
}

// NewLedgerWriter construye el writer.
func NewLedgerWriter() *LedgerWriter {
	return &LedgerWriter{now: time.Now}
}

// Append inserta la Purchase derivada de e y su evento de outbox usando los repositorios de la tx.
// UnitPrice es el precio del producto leído en la misma tx; TotalPrice = Quantity * UnitPrice.
func (w *LedgerWriter) Append(
	ctx context.Context,
	purchases repository.PurchaseRepository,
	outbox repository.OutboxRepository,
	e LedgerEntry,
) (*entity.Purchase, error) {
	if e.Seller == nil || e.Product == nil {
		return nil, fmt.Errorf("ledger: seller y product son requeridos")
	}
	now := w.now().UTC()
	purchase := &entity.Purchase{
		ID:          uuid.New().String(),
		UserID:      e.UserID,
		SellerID:    e.Seller.ID,
		ProductID:   e.Product.ID,
		SellerName:  e.Seller.Name,
		ProductName: e.Product.Name,
		Type:        e.Type,
		Quantity:    e.Quantity,
		UnitPrice:   e.Product.Price,
		TotalPrice:  entity.PurchaseTotal(e.Quantity, e.Product.Price),
		CreatedAt:   now,
	}
	if err := purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(PurchaseRecorded{
		PurchaseID:  purchase.ID,
		UserID:      purchase.UserID,
		SellerID:    purchase.SellerID,
		SellerName:  purchase.SellerName,
		ProductID:   purchase.ProductID,
		ProductName: purchase.ProductName,
		Type:        purchase.Type,
		Quantity:    purchase.Quantity,
		UnitPrice:   purchase.UnitPrice,
		TotalPrice:  purchase.TotalPrice,
		StockAfter:  e.Product.Stock,
		OccurredAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal purchase event: %w", err)
	}
	event := &entity.OutboxEvent{
		ID:           uuid.New().String(),
		AggregateID:  purchase.ID,
		PartitionKey: purchase.ProductID,
		EventType:    entity.EventPurchaseRecorded,
		Payload:      payload,
		CreatedAt:    now,
	}
	if err := outbox.Create(ctx, event); err != nil {
		return nil, err
	}
	return purchase, nil
}
