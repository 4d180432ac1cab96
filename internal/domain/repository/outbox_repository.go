package repository

import (
	"context"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
)

// OutboxRepository persiste eventos a publicar junto con la transacción que los origina.
type OutboxRepository interface {
	Create(ctx context.Context, event *entity.OutboxEvent) error
	// ClaimPending bloquea hasta limit eventos no publicados (SKIP LOCKED), en orden de creación.
	ClaimPending(ctx context.Context, limit int) ([]*entity.OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []string) error
}
