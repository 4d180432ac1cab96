package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/seller-catalog-api/internal/application/catalog"
	"github.com/jhoicas/seller-catalog-api/internal/application/dto"
)

// PurchaseHandler lectura del libro de compras y comprobantes PDF.
type PurchaseHandler struct {
	ledger   *catalog.LedgerReader
	receipts *catalog.ReceiptUseCase
}

func NewPurchaseHandler(ledger *catalog.LedgerReader, receipts *catalog.ReceiptUseCase) *PurchaseHandler {
	return &PurchaseHandler{ledger: ledger, receipts: receipts}
}

// ListByProduct godoc
// @Summary      Compras de un producto
// @Description  Sigue disponible aunque el producto se haya borrado.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.PurchaseListResponse
// @Router       /api/products/{id}/purchases [get]
func (h *PurchaseHandler) ListByProduct(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	page := dto.NewPageRequest(c.QueryInt("limit"), c.QueryInt("offset"))
	list, err := h.ledger.ListByProduct(c.UserContext(), userID, c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToPurchaseListResponse(list, page.Limit, page.Offset))
}

// GetByID godoc
// @Summary      Obtener compra por ID
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	purchase, err := h.ledger.GetByID(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToPurchaseResponse(purchase))
}

// Receipt godoc
// @Summary      Comprobante PDF de una compra
// @Tags         purchases
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receipt [get]
func (h *PurchaseHandler) Receipt(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	pdf, err := h.receipts.PurchaseReceiptPDF(c.UserContext(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="compra-%s.pdf"`, id))
	return c.Send(pdf)
}
