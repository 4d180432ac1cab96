package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de registro en el libro de compras.
const (
	PurchaseTypeInitial = "INITIAL" // stock inicial al crear el producto
	PurchaseTypeRestock = "RESTOCK" // reposición vía AddStock
)

// Purchase es una entrada inmutable del libro de compras. SellerName y ProductName se copian
// al momento de escribir y no siguen cambios posteriores del vendedor o del producto.
type Purchase struct {
	ID          string
	UserID      string
	SellerID    string
	ProductID   string
	SellerName  string
	ProductName string
	Type        string
	Quantity    int64           // delta de stock aplicado
	UnitPrice   decimal.Decimal // precio del producto al momento del evento
	TotalPrice  decimal.Decimal // Quantity * UnitPrice
	CreatedAt   time.Time
}

// PurchaseTotal calcula Quantity * UnitPrice sin redondeo.
func PurchaseTotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}
