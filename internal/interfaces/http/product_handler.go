package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/seller-catalog-api/internal/application/catalog"
	"github.com/jhoicas/seller-catalog-api/internal/application/dto"
)

// ProductHandler maneja las peticiones HTTP de productos (protegido).
type ProductHandler struct {
	coord *catalog.TransactionCoordinator
	store *catalog.InventoryStore
}

// NewProductHandler construye el handler.
func NewProductHandler(coord *catalog.TransactionCoordinator, store *catalog.InventoryStore) *ProductHandler {
	return &ProductHandler{coord: coord, store: store}
}

// Create godoc
// @Summary      Crear producto y registrar su compra inicial
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                    false  "Clave para reintentos seguros"
// @Param        body             body    dto.CreateProductRequest  true   "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	product, err := h.coord.CreateProduct(c.UserContext(), userID, in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(product))
}

// AddStock godoc
// @Summary      Sumar stock y registrar la compra
// @Description  stock es un delta; el stock resultante no puede quedar negativo.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string               true   "ID del producto"
// @Param        Idempotency-Key  header  string               false  "Clave para reintentos seguros"
// @Param        body             body    dto.AddStockRequest  true   "Vendedor y cantidad"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [post]
func (h *ProductHandler) AddStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	product, err := h.coord.AddStock(c.UserContext(), userID, c.Params("id"), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductResponse(product))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	product, err := h.store.GetByID(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductResponse(product))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	page := dto.NewPageRequest(c.QueryInt("limit"), c.QueryInt("offset"))
	list, err := h.store.List(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductListResponse(list, page.Limit, page.Offset))
}

// BulkDelete godoc
// @Summary      Borrar productos por IDs
// @Description  No toca el libro de compras.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkDeleteRequest  true  "IDs"
// @Success      200   {object}  dto.BulkDeleteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [delete]
func (h *ProductHandler) BulkDelete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.BulkDeleteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	n, err := h.store.BulkDelete(c.UserContext(), userID, in.IDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BulkDeleteResponse{Deleted: n})
}

// TotalStock godoc
// @Summary      Stock total del usuario
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TotalStockResponse
// @Router       /api/stock/total [get]
func (h *ProductHandler) TotalStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	total, err := h.store.TotalStock(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TotalStockResponse{TotalStock: total})
}
