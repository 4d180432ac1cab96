package entity

import (
	"encoding/json"
	"time"
)

// EventPurchaseRecorded se emite por cada Purchase confirmada.
const EventPurchaseRecorded = "purchase.recorded"

// OutboxEvent es un evento pendiente de publicar, escrito en la misma transacción que su Purchase.
type OutboxEvent struct {
	ID           string
	AggregateID  string // id de la Purchase
	PartitionKey string // id del producto; ordena los eventos de un mismo producto en Kafka
	EventType    string
	Payload      json.RawMessage
	CreatedAt    time.Time
	PublishedAt  *time.Time
}
