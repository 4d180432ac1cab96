package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/seller-catalog-api/internal/application/catalog"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
	"github.com/jhoicas/seller-catalog-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Coordinator    *catalog.TransactionCoordinator
	Store          *catalog.InventoryStore
	Ledger         *catalog.LedgerReader
	Receipts       *catalog.ReceiptUseCase
	Idempotency    repository.IdempotencyStore // nil deshabilita Idempotency-Key
	IdempotencyTTL time.Duration
	JWTSecret      string
	Logger         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	idem := Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Logger)

	productHandler := NewProductHandler(deps.Coordinator, deps.Store)
	purchaseHandler := NewPurchaseHandler(deps.Ledger, deps.Receipts)

	products := api.Group("/products")
	products.Post("/", idem, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Delete("/", productHandler.BulkDelete)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/stock", idem, productHandler.AddStock)
	products.Get("/:id/purchases", purchaseHandler.ListByProduct)

	api.Get("/stock/total", productHandler.TotalStock)

	purchases := api.Group("/purchases")
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Get("/:id/receipt", purchaseHandler.Receipt)
}
