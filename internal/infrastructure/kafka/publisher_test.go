package kafka_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	infrakafka "github.com/jhoicas/seller-catalog-api/internal/infrastructure/kafka"
	"github.com/jhoicas/seller-catalog-api/pkg/config"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessage(_ context.Context, msg kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msg)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	pub := infrakafka.NewPublisher(w)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := pub.Publish(context.Background(), &entity.OutboxEvent{
		ID:           "e1",
		AggregateID:  "r1",
		PartitionKey: "p1",
		EventType:    entity.EventPurchaseRecorded,
		Payload:      []byte(`{"quantity":3}`),
		CreatedAt:    created,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "p1", string(msg.Key), "la clave es el producto")
	assert.JSONEq(t, `{"quantity":3}`, string(msg.Value))
	assert.Equal(t, created, msg.Time)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "e1", headers[infrakafka.HeaderEventID])
	assert.Equal(t, entity.EventPurchaseRecorded, headers[infrakafka.HeaderEventType])

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}

func TestPublisher_WrapsWriteError(t *testing.T) {
	cause := errors.New("leader not available")
	pub := infrakafka.NewPublisher(&recordingWriter{err: cause})

	err := pub.Publish(context.Background(), &entity.OutboxEvent{ID: "e9"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "e9")
}

func TestNewWriter_RequiresBrokers(t *testing.T) {
	_, err := infrakafka.NewWriter(config.KafkaConfig{Topic: "t"}, "test", nil)
	assert.Error(t, err)
}
