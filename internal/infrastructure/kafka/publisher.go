// Package kafka publica eventos del outbox en Kafka con propagación de trazas.
package kafka

import (
	"context"
	"fmt"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/seller-catalog-api/internal/application/events"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/pkg/config"
)

var _ events.Publisher = (*Publisher)(nil)

// MessageWriter lo que el publisher necesita del writer (otelkafka.Writer en producción).
type MessageWriter interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// Cabeceras agregadas a cada mensaje.
const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

// NewWriter crea el writer instrumentado. El balanceo por hash de la clave mantiene en una misma
// partición (y en orden) los eventos de un producto.
func NewWriter(cfg config.KafkaConfig, clientID string, tp trace.TracerProvider) (*otelkafka.Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no hay brokers configurados")
	}
	base := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes([]attribute.KeyValue{
			semconv.MessagingDestinationNameKey.String(cfg.Topic),
			attribute.String("messaging.kafka.client_id", clientID),
		}),
	)
}

// Publisher adapta eventos del outbox a mensajes Kafka.
type Publisher struct {
	writer MessageWriter
}

func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish escribe un mensaje (uno a uno: WriteMessage es el que propaga la traza).
func (p *Publisher) Publish(ctx context.Context, e *entity.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(e.PartitionKey),
		Value: e.Payload,
		Time:  e.CreatedAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(e.ID)},
			{Key: HeaderEventType, Value: []byte(e.EventType)},
		},
	}
	if err := p.writer.WriteMessage(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", e.ID, err)
	}
	return nil
}

// Close cierra el writer subyacente.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
