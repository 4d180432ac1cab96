// Package memdb es un motor de almacenamiento en memoria para tests: mismas interfaces que el adaptador
// PostgreSQL (TxRunner y repositorios), transacciones serializables y copy-on-commit.
package memdb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/seller-catalog-api/internal/application/catalog"
	"github.com/jhoicas/seller-catalog-api/internal/application/events"
	"github.com/jhoicas/seller-catalog-api/internal/domain"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
)

// Puntos donde se pueden inyectar fallos con Fail.
const (
	FaultProductCreate       = "products.create"
	FaultIncrementStock      = "products.increment"
	FaultPurchaseCreate      = "purchases.create"
	FaultOutboxCreate        = "outbox.create"
	FaultCommit              = "commit"
	FaultSellerLookup        = "sellers.get"
	FaultOutboxMarkPublished = "outbox.mark_published"
)

type state struct {
	sellers   map[string]entity.Seller
	products  map[string]entity.Product
	purchases []entity.Purchase
	outbox    []entity.OutboxEvent
}

func newState() *state {
	return &state{
		sellers:  make(map[string]entity.Seller),
		products: make(map[string]entity.Product),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.sellers {
		c.sellers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	c.purchases = append(c.purchases, s.purchases...)
	c.outbox = append(c.outbox, s.outbox...)
	return c
}

// DB es el motor. Las transacciones se ejecutan una a la vez sobre una copia y se publican al confirmar.
type DB struct {
	mu     sync.Mutex
	cur    *state
	faults map[string]error
}

var (
	_ catalog.TxRunner      = (*DB)(nil)
	_ events.OutboxTxRunner = (*DB)(nil)
)

func New() *DB {
	return &DB{cur: newState(), faults: make(map[string]error)}
}

// Fail hace que el punto indicado devuelva err hasta que se llame a Clear.
func (db *DB) Fail(point string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.faults[point] = err
}

// Clear quita los fallos inyectados.
func (db *DB) Clear() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.faults = make(map[string]error)
}

// Run ejecuta fn con repositorios atados a una copia del estado. Si fn devuelve nil la copia
// reemplaza al estado confirmado; si no, se descarta.
func (db *DB) Run(ctx context.Context, fn func(repos catalog.TxRepositories) error) error {
	return db.inTx(ctx, func(t *tx) error {
		return fn(catalog.TxRepositories{
			Sellers:   &sellerRepo{t: t},
			Products:  &productRepo{t: t},
			Purchases: &purchaseRepo{t: t},
			Outbox:    &outboxRepo{t: t},
		})
	})
}

// RunOutbox igual que Run pero solo con el outbox (relay de eventos).
func (db *DB) RunOutbox(ctx context.Context, fn func(outbox repository.OutboxRepository) error) error {
	return db.inTx(ctx, func(t *tx) error {
		return fn(&outboxRepo{t: t})
	})
}

func (db *DB) inTx(ctx context.Context, fn func(t *tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	t := &tx{st: db.cur.clone(), faults: db.faults}
	if err := fn(t); err != nil {
		return err
	}
	if err := db.faults[FaultCommit]; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	db.cur = t.st
	return nil
}

// Sellers, Products, Purchases y Outbox devuelven repositorios fuera de transacción (autocommit),
// equivalentes a construir los repos de postgres sobre el pool.
func (db *DB) Sellers() repository.SellerRepository     { return &sellerRepo{db: db} }
func (db *DB) Products() repository.ProductRepository   { return &productRepo{db: db} }
func (db *DB) Purchases() repository.PurchaseRepository { return &purchaseRepo{db: db} }
func (db *DB) Outbox() repository.OutboxRepository      { return &outboxRepo{db: db} }

// AddSeller registra un vendedor directamente en el estado confirmado.
func (db *DB) AddSeller(id, name string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.cur.sellers[id] = entity.Seller{ID: id, Name: name}
}

// RenameSeller cambia el nombre de un vendedor ya registrado.
func (db *DB) RenameSeller(id, name string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := db.cur.sellers[id]
	s.Name = name
	db.cur.sellers[id] = s
}

// Snapshot devuelve copias del estado confirmado.
func (db *DB) Snapshot() (products []entity.Product, purchases []entity.Purchase, outbox []entity.OutboxEvent) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, p := range db.cur.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	purchases = append(purchases, db.cur.purchases...)
	outbox = append(outbox, db.cur.outbox...)
	return products, purchases, outbox
}

// tx estado de trabajo de una transacción.
type tx struct {
	st     *state
	faults map[string]error
}

func (t *tx) fault(point string) error {
	return t.faults[point]
}

// access ejecuta f sobre el estado de la tx o, en autocommit, sobre el estado confirmado bajo el mutex.
type access struct {
	t  *tx
	db *DB
}

func (a access) do(f func(t *tx) error) error {
	if a.t != nil {
		return f(a.t)
	}
	a.db.mu.Lock()
	defer a.db.mu.Unlock()
	return f(&tx{st: a.db.cur, faults: a.db.faults})
}

var (
	errCheckStock = fmt.Errorf("%w: el stock resultante sería negativo", domain.ErrConflict)
	// Como el 22003 de PostgreSQL en BIGINT.
	errStockRange = fmt.Errorf("%w: stock fuera de rango", domain.ErrInvalidInput)
)
