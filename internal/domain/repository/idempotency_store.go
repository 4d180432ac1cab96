package repository

import (
	"context"
	"time"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
)

// IdempotencyStore guarda el resultado de solicitudes mutantes por clave de idempotencia.
type IdempotencyStore interface {
	// Reserve marca la clave como en curso para la petición con fingerprint. false si ya existía.
	Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (bool, error)
	// Lookup devuelve la respuesta guardada; pending=true si la primera solicitud aún no terminó
	// (resp trae entonces solo el Fingerprint).
	Lookup(ctx context.Context, key string) (resp *entity.IdempotentResponse, pending bool, err error)
	Complete(ctx context.Context, key string, resp *entity.IdempotentResponse, ttl time.Duration) error
	// Release libera la clave para que un reintento vuelva a ejecutarse.
	Release(ctx context.Context, key string) error
}
