package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-catalog-api/internal/application/catalog"
	"github.com/jhoicas/seller-catalog-api/internal/application/events"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/testutil/memdb"
	"github.com/jhoicas/seller-catalog-api/pkg/logger"
)

type fakePublisher struct {
	mu     sync.Mutex
	sent   []string
	failOn string
}

func (f *fakePublisher) Publish(_ context.Context, e *entity.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.AggregateID == f.failOn {
		return errors.New("broker unavailable")
	}
	f.sent = append(f.sent, e.AggregateID)
	return nil
}

func (f *fakePublisher) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func seed(t *testing.T, n int) (*memdb.DB, []string) {
	t.Helper()
	db := memdb.New()
	db.AddSeller("S1", "Acme")
	coord := catalog.NewTransactionCoordinator(db, catalog.NewLedgerWriter(), logger.Nop(), nil)
	for i := 0; i < n; i++ {
		price := decimal.RequireFromString("2.5")
		stock := int64(i + 1)
		_, err := coord.CreateProduct(context.Background(), "u1", catalog.CreateProductInput{
			Name: "P", Price: &price, Seller: "S1", Stock: &stock,
		})
		require.NoError(t, err)
	}
	_, purchases, _ := db.Snapshot()
	ids := make([]string, 0, len(purchases))
	for _, p := range purchases {
		ids = append(ids, p.ID)
	}
	return db, ids
}

func pendingCount(db *memdb.DB) int {
	_, _, outbox := db.Snapshot()
	n := 0
	for _, e := range outbox {
		if e.PublishedAt == nil {
			n++
		}
	}
	return n
}

func TestProcessBatch_PublishesInOrder(t *testing.T) {
	db, ids := seed(t, 3)
	pub := &fakePublisher{}
	relay := events.NewOutboxRelay(db, pub, events.RelayConfig{BatchSize: 10}, logger.Nop())

	n, err := relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, ids, pub.Sent())
	assert.Zero(t, pendingCount(db))

	n, err = relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "nada que republicar")
}

func TestProcessBatch_FailureKeepsRestPending(t *testing.T) {
	db, ids := seed(t, 3)
	pub := &fakePublisher{failOn: ids[1]}
	relay := events.NewOutboxRelay(db, pub, events.RelayConfig{BatchSize: 10}, logger.Nop())

	n, err := relay.ProcessBatch(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, pendingCount(db))

	pub.failOn = ""
	n, err = relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, ids, pub.Sent())
}

func TestProcessBatch_MarkFailureRollsBack(t *testing.T) {
	db, _ := seed(t, 2)
	db.Fail(memdb.FaultOutboxMarkPublished, errors.New("db down"))
	relay := events.NewOutboxRelay(db, &fakePublisher{}, events.RelayConfig{BatchSize: 10}, logger.Nop())

	_, err := relay.ProcessBatch(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, pendingCount(db))
}

func TestRelay_StartStop(t *testing.T) {
	db, ids := seed(t, 5)
	pub := &fakePublisher{}
	relay := events.NewOutboxRelay(db, pub, events.RelayConfig{BatchSize: 2, PollInterval: 10 * time.Millisecond}, logger.Nop())

	relay.Start(context.Background())
	require.Eventually(t, func() bool { return len(pub.Sent()) == len(ids) }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, relay.Stop(ctx))
	assert.Zero(t, pendingCount(db))
}
