package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/seller-catalog-api/internal/domain"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
	"github.com/jhoicas/seller-catalog-api/pkg/logger"
)

// Operaciones reportadas en los errores ("<op> failed: <causa>").
const (
	OpCreate      = "create"
	OpStockUpdate = "stock update"
)

// txState etapa alcanzada por una unidad de trabajo. Started → SellerValidated → ProductMutated →
// LedgerAppended → Committed; cualquier fallo termina en Aborted.
type txState string

const (
	stateStarted         txState = "STARTED"
	stateSellerValidated txState = "SELLER_VALIDATED"
	stateProductMutated  txState = "PRODUCT_MUTATED"
	stateLedgerAppended  txState = "LEDGER_APPENDED"
	stateCommitted       txState = "COMMITTED"
	stateAborted         txState = "ABORTED"
)

// TransactionCoordinator aplica una mutación de producto y su entrada de libro como una sola unidad atómica.
type TransactionCoordinator struct {
	txRunner TxRunner
	ledger   *LedgerWriter
	log      *logger.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewTransactionCoordinator construye el coordinador. tracer puede ser nil (usa el provider global).
func NewTransactionCoordinator(txRunner TxRunner, ledger *LedgerWriter, log *logger.Logger, tracer trace.Tracer) *TransactionCoordinator {
	if tracer == nil {
		tracer = otel.Tracer("github.com/jhoicas/seller-catalog-api/catalog")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TransactionCoordinator{
		txRunner: txRunner,
		ledger:   ledger,
		log:      log,
		tracer:   tracer,
		now:      time.Now,
	}
}

// CreateProduct crea el producto de userID y registra la compra inicial (quantity = stock, unitPrice = price)
// en una sola transacción. Si algo falla no queda visible ni el producto ni la compra.
func (c *TransactionCoordinator) CreateProduct(ctx context.Context, userID string, in CreateProductInput) (*entity.Product, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.CreateProduct")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, c.reject(span, OpCreate, err)
	}
	if err := in.Validate(); err != nil {
		return nil, c.reject(span, OpCreate, err)
	}

	now := c.now().UTC()
	product := &entity.Product{
		ID:         uuid.New().String(),
		UserID:     userID,
		SellerID:   in.Seller,
		CategoryID: optional(in.Category),
		BrandID:    optional(in.Brand),
		Name:       in.Name,
		Price:      *in.Price,
		Stock:      in.InitialStock(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	span.SetAttributes(
		attribute.String("catalog.user_id", userID),
		attribute.String("catalog.seller_id", in.Seller),
		attribute.String("catalog.product_id", product.ID),
	)

	var purchase *entity.Purchase
	state := stateStarted
	err := c.txRunner.Run(ctx, func(repos TxRepositories) error {
		seller, err := resolveSeller(ctx, repos.Sellers, in.Seller)
		if err != nil {
			return err
		}
		state = stateSellerValidated

		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		state = stateProductMutated

		purchase, err = c.ledger.Append(ctx, repos.Purchases, repos.Outbox, LedgerEntry{
			UserID:   userID,
			Type:     entity.PurchaseTypeInitial,
			Quantity: product.Stock,
			Seller:   seller,
			Product:  product,
		})
		if err != nil {
			return err
		}
		state = stateLedgerAppended
		return nil
	})
	if err != nil {
		return nil, c.abort(span, OpCreate, state, err, userID, product.ID, in.Seller)
	}

	c.committed(span, OpCreate, userID, product.ID, purchase)
	return product, nil
}

// AddStock suma in.Stock al stock del producto en el motor y registra la compra con el precio leído
// en la misma transacción. NotFound si el producto no existe para userID.
func (c *TransactionCoordinator) AddStock(ctx context.Context, userID, productID string, in AddStockInput) (*entity.Product, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.AddStock")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, c.reject(span, OpStockUpdate, err)
	}
	if productID == "" {
		return nil, c.reject(span, OpStockUpdate, fmt.Errorf("%w: product_id", domain.ErrMissingField))
	}
	if err := in.Validate(); err != nil {
		return nil, c.reject(span, OpStockUpdate, err)
	}
	delta := *in.Stock
	span.SetAttributes(
		attribute.String("catalog.user_id", userID),
		attribute.String("catalog.seller_id", in.Seller),
		attribute.String("catalog.product_id", productID),
		attribute.Int64("catalog.stock_delta", delta),
	)

	var (
		product  *entity.Product
		purchase *entity.Purchase
	)
	state := stateStarted
	err := c.txRunner.Run(ctx, func(repos TxRepositories) error {
		seller, err := resolveSeller(ctx, repos.Sellers, in.Seller)
		if err != nil {
			return err
		}
		state = stateSellerValidated

		// El incremento lo hace el motor y bloquea la fila hasta el commit.
		product, err = repos.Products.IncrementStock(ctx, userID, productID, delta)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		state = stateProductMutated

		purchase, err = c.ledger.Append(ctx, repos.Purchases, repos.Outbox, LedgerEntry{
			UserID:   userID,
			Type:     entity.PurchaseTypeRestock,
			Quantity: delta,
			Seller:   seller,
			Product:  product,
		})
		if err != nil {
			return err
		}
		state = stateLedgerAppended
		return nil
	})
	if err != nil {
		return nil, c.abort(span, OpStockUpdate, state, err, userID, productID, in.Seller)
	}

	c.committed(span, OpStockUpdate, userID, productID, purchase)
	return product, nil
}

func resolveSeller(ctx context.Context, sellers repository.SellerRepository, sellerID string) (*entity.Seller, error) {
	seller, err := sellers.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, fmt.Errorf("%w: seller %s no existe", domain.ErrInvalidReference, sellerID)
	}
	return seller, nil
}

func requireUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id", domain.ErrMissingField)
	}
	return nil
}

// reject reporta una precondición no cumplida; no se llegó a abrir transacción.
func (c *TransactionCoordinator) reject(span trace.Span, op string, err error) error {
	wrapped := domain.Wrap(op, err)
	span.RecordError(wrapped)
	span.SetStatus(codes.Error, string(domain.KindOf(wrapped)))
	c.log.Warn().Err(err).
		Str("op", op).
		Str("kind", string(domain.KindOf(wrapped))).
		Msg("solicitud rechazada")
	return wrapped
}

// abort registra el fallo en el punto donde ocurrió (última etapa alcanzada) y lo envuelve con la operación.
// Para entonces el TxRunner ya hizo Rollback.
func (c *TransactionCoordinator) abort(span trace.Span, op string, reached txState, err error, userID, productID, sellerID string) error {
	wrapped := domain.Wrap(op, err)
	kind := domain.KindOf(wrapped)
	span.RecordError(wrapped)
	span.SetStatus(codes.Error, string(kind))
	span.SetAttributes(attribute.String("catalog.tx_state", string(stateAborted)))

	ev := c.log.Error()
	if kind != domain.KindTransactionFailed {
		ev = c.log.Warn()
	}
	ev.Err(err).
		Str("op", op).
		Str("kind", string(kind)).
		Str("state", string(reached)).
		Str("user_id", userID).
		Str("product_id", productID).
		Str("seller_id", sellerID).
		Msg("transacción abortada")
	return wrapped
}

func (c *TransactionCoordinator) committed(span trace.Span, op, userID, productID string, purchase *entity.Purchase) {
	span.SetAttributes(
		attribute.String("catalog.tx_state", string(stateCommitted)),
		attribute.String("catalog.purchase_id", purchase.ID),
	)
	c.log.Debug().
		Str("op", op).
		Str("user_id", userID).
		Str("product_id", productID).
		Str("purchase_id", purchase.ID).
		Int64("quantity", purchase.Quantity).
		Str("total_price", purchase.TotalPrice.String()).
		Msg("transacción confirmada")
}
