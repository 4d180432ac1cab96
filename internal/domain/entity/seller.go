package entity

import "time"

// Seller es una referencia externa: el catálogo solo la lee para validar y copiar su nombre.
type Seller struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
