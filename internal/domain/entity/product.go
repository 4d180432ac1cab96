package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de un vendedor, propiedad de un usuario (tenant).
// Stock solo cambia dentro de una transacción que también registra la Purchase correspondiente.
type Product struct {
	ID         string
	UserID     string // usuario dueño del registro
	SellerID   string
	CategoryID *string // opcional
	BrandID    *string // opcional
	Name       string
	Price      decimal.Decimal // precio unitario vigente, > 0
	Stock      int64           // nunca negativo (CHECK en la tabla)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
