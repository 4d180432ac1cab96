// Package events publica los eventos del outbox fuera de la transacción que los generó.
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
	"github.com/jhoicas/seller-catalog-api/pkg/logger"
)

// Publisher entrega un evento al broker.
type Publisher interface {
	Publish(ctx context.Context, event *entity.OutboxEvent) error
}

// OutboxTxRunner ejecuta fn en una transacción con el repositorio de outbox atado a ella.
type OutboxTxRunner interface {
	RunOutbox(ctx context.Context, fn func(outbox repository.OutboxRepository) error) error
}

// RelayConfig configuración del relay.
type RelayConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// OutboxRelay reclama eventos pendientes, los publica y los marca como publicados en la misma tx.
// Si un publish falla, ese evento y los siguientes del lote quedan pendientes para el próximo ciclo.
type OutboxRelay struct {
	tx        OutboxTxRunner
	publisher Publisher
	cfg       RelayConfig
	log       *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxRelay(tx OutboxTxRunner, publisher Publisher, cfg RelayConfig, log *logger.Logger) *OutboxRelay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OutboxRelay{tx: tx, publisher: publisher, cfg: cfg, log: log}
}

// Start lanza el ciclo de sondeo en segundo plano.
func (r *OutboxRelay) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(ctx)

	r.log.Info().
		Int("batch_size", r.cfg.BatchSize).
		Dur("poll_interval", r.cfg.PollInterval).
		Msg("outbox relay iniciado")
}

// Stop detiene el ciclo y espera a que termine el lote en curso (o a que ctx expire).
func (r *OutboxRelay) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		r.log.Info().Msg("outbox relay detenido")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *OutboxRelay) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Vaciar el backlog antes de esperar al siguiente tick.
			for {
				n, err := r.ProcessBatch(ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						r.log.Error().Err(err).Msg("outbox relay: lote fallido")
					}
					break
				}
				if n < r.cfg.BatchSize {
					break
				}
			}
		}
	}
}

// ProcessBatch procesa un lote y devuelve cuántos eventos se publicaron.
func (r *OutboxRelay) ProcessBatch(ctx context.Context) (int, error) {
	var (
		published int
		pubErr    error
	)
	err := r.tx.RunOutbox(ctx, func(outbox repository.OutboxRepository) error {
		pending, err := outbox.ClaimPending(ctx, r.cfg.BatchSize)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(pending))
		for _, e := range pending {
			if err := r.publisher.Publish(ctx, e); err != nil {
				r.log.Warn().Err(err).
					Str("event_id", e.ID).
					Str("event_type", e.EventType).
					Str("aggregate_id", e.AggregateID).
					Msg("publish fallido; queda pendiente")
				pubErr = err
				break
			}
			ids = append(ids, e.ID)
		}
		if err := outbox.MarkPublished(ctx, ids); err != nil {
			return err
		}
		published = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if published > 0 {
		r.log.Debug().Int("published", published).Msg("eventos publicados")
	}
	return published, pubErr
}
