package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/seller-catalog-api/internal/domain"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
)

// InventoryStore consultas y borrado de productos fuera de la unidad atómica.
// Nunca toca el libro de compras.
type InventoryStore struct {
	products repository.ProductRepository
}

// NewInventoryStore construye el store sobre un repositorio atado al pool.
func NewInventoryStore(products repository.ProductRepository) *InventoryStore {
	return &InventoryStore{products: products}
}

// GetByID obtiene un producto de userID. ErrNotFound si no existe o pertenece a otro usuario.
func (s *InventoryStore) GetByID(ctx context.Context, userID, id string) (*entity.Product, error) {
	product, err := s.products.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return product, nil
}

// List lista los productos de userID con paginación.
func (s *InventoryStore) List(ctx context.Context, userID string, limit, offset int) ([]*entity.Product, error) {
	return s.products.ListByUser(ctx, userID, limit, offset)
}

// TotalStock suma el stock de todos los productos de userID.
func (s *InventoryStore) TotalStock(ctx context.Context, userID string) (int64, error) {
	return s.products.SumStockByUser(ctx, userID)
}

// BulkDelete elimina los productos indicados de userID y devuelve cuántos se borraron.
// Las compras históricas que los referencian se conservan.
func (s *InventoryStore) BulkDelete(ctx context.Context, userID string, ids []string) (int64, error) {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return 0, fmt.Errorf("%w: ids", domain.ErrMissingField)
	}
	return s.products.DeleteMany(ctx, userID, clean)
}

// LedgerReader lectura del libro de compras (sin mutaciones).
type LedgerReader struct {
	purchases repository.PurchaseRepository
}

// NewLedgerReader construye el lector.
func NewLedgerReader(purchases repository.PurchaseRepository) *LedgerReader {
	return &LedgerReader{purchases: purchases}
}

// GetByID obtiene una compra de userID. ErrNotFound si no existe.
func (r *LedgerReader) GetByID(ctx context.Context, userID, id string) (*entity.Purchase, error) {
	purchase, err := r.purchases.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	return purchase, nil
}

// ListByProduct lista las compras de un producto, más recientes primero. Funciona aunque el producto ya no exista.
func (r *LedgerReader) ListByProduct(ctx context.Context, userID, productID string, limit, offset int) ([]*entity.Purchase, error) {
	return r.purchases.ListByProduct(ctx, userID, productID, limit, offset)
}

// ReceiptUseCase genera el comprobante PDF de una compra.
type ReceiptUseCase struct {
	ledger   *LedgerReader
	renderer ReceiptRenderer
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(ledger *LedgerReader, renderer ReceiptRenderer) *ReceiptUseCase {
	return &ReceiptUseCase{ledger: ledger, renderer: renderer}
}

// PurchaseReceiptPDF devuelve los bytes del PDF de la compra purchaseID de userID.
func (uc *ReceiptUseCase) PurchaseReceiptPDF(ctx context.Context, userID, purchaseID string) ([]byte, error) {
	purchase, err := uc.ledger.GetByID(ctx, userID, purchaseID)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderPurchaseReceipt(ctx, purchase)
}
