package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/seller-catalog-api/internal/domain"
)

// PriceScale decimales que guardan las columnas NUMERIC(18,4) de precios.
const PriceScale = 4

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los errores reportan el nombre del campo tal como lo envía el cliente.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// CreateProductInput entrada tipada de CreateProduct. Los strings vacíos (o solo espacios) cuentan como ausentes.
type CreateProductInput struct {
	Name     string           `json:"name" validate:"required"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Seller   string           `json:"seller" validate:"required"`
	Stock    *int64           `json:"stock"`
	Category string           `json:"category"`
	Brand    string           `json:"brand"`
}

// AddStockInput entrada tipada de AddStock. Stock es el delta a sumar.
type AddStockInput struct {
	Seller string `json:"seller" validate:"required"`
	Stock  *int64 `json:"stock" validate:"required"`
}

func (in *CreateProductInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Seller = strings.TrimSpace(in.Seller)
	in.Category = strings.TrimSpace(in.Category)
	in.Brand = strings.TrimSpace(in.Brand)
}

// Validate normaliza y valida la entrada: ErrMissingField si falta un campo requerido,
// ErrInvalidInput si el precio no es positivo o el stock inicial es negativo.
func (in *CreateProductInput) Validate() error {
	in.normalize()
	if err := validate.Struct(in); err != nil {
		return validationError(err)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price debe ser mayor que cero", domain.ErrInvalidInput)
	}
	// El motor redondearía price, unit_price y total_price por separado y el total dejaría de cuadrar.
	if in.Price.Exponent() < -PriceScale && !in.Price.Equal(in.Price.Truncate(PriceScale)) {
		return fmt.Errorf("%w: price admite como máximo %d decimales", domain.ErrInvalidInput, PriceScale)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// InitialStock devuelve el stock inicial (0 si no se envió).
func (in *CreateProductInput) InitialStock() int64 {
	if in.Stock == nil {
		return 0
	}
	return *in.Stock
}

// Validate normaliza y valida la entrada. El delta no se restringe a positivos.
func (in *AddStockInput) Validate() error {
	in.Seller = strings.TrimSpace(in.Seller)
	if err := validate.Struct(in); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: %s", domain.ErrMissingField, strings.Join(fields, ", "))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
