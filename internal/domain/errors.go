package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidReference  = errors.New("referencia inválida")
	ErrMissingField      = errors.New("campo requerido ausente")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrTransactionFailed = errors.New("la transacción no pudo confirmarse")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
)

// Kind clasifica un error para el llamador (HTTP u otro caso de uso).
type Kind string

const (
	KindInvalidReference  Kind = "INVALID_REFERENCE"
	KindMissingField      Kind = "MISSING_FIELD"
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindNotFound          Kind = "NOT_FOUND"
	KindTransactionFailed Kind = "TRANSACTION_FAILED"
)

// Error envuelve la causa de una operación fallida con su clase y el nombre de la operación.
// Error() produce "<op> failed: <causa>"; la causa original queda disponible vía errors.Is/As.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Op + " failed: " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap construye un *Error deduciendo Kind desde la causa.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: KindOf(err), Err: err}
}

// KindOf devuelve la clase de err. Cualquier error no clasificado es TransactionFailed.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) && de.Kind != "" {
		return de.Kind
	}
	switch {
	case errors.Is(err, ErrInvalidReference):
		return KindInvalidReference
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindTransactionFailed
	}
}
