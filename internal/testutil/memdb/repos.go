package memdb

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jhoicas/seller-catalog-api/internal/domain"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
)

type sellerRepo struct {
	t  *tx
	db *DB
}

func (r *sellerRepo) GetByID(_ context.Context, id string) (*entity.Seller, error) {
	var out *entity.Seller
	err := access{r.t, r.db}.do(func(t *tx) error {
		if err := t.fault(FaultSellerLookup); err != nil {
			return err
		}
		if s, ok := t.st.sellers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

type productRepo struct {
	t  *tx
	db *DB
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return access{r.t, r.db}.do(func(t *tx) error {
		if err := t.fault(FaultProductCreate); err != nil {
			return err
		}
		if _, ok := t.st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := t.st.sellers[p.SellerID]; !ok {
			return fmt.Errorf("%w: seller %s", domain.ErrInvalidReference, p.SellerID)
		}
		if p.Stock < 0 {
			return errCheckStock
		}
		t.st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, userID, id string) (*entity.Product, error) {
	var out *entity.Product
	err := access{r.t, r.db}.do(func(t *tx) error {
		if p, ok := t.st.products[id]; ok && p.UserID == userID {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) IncrementStock(_ context.Context, userID, id string, delta int64) (*entity.Product, error) {
	var out *entity.Product
	err := access{r.t, r.db}.do(func(t *tx) error {
		if err := t.fault(FaultIncrementStock); err != nil {
			return err
		}
		p, ok := t.st.products[id]
		if !ok || p.UserID != userID {
			return nil
		}
		if (delta > 0 && p.Stock > math.MaxInt64-delta) || (delta < 0 && p.Stock < math.MinInt64-delta) {
			return errStockRange
		}
		if p.Stock+delta < 0 {
			return errCheckStock
		}
		p.Stock += delta
		p.UpdatedAt = time.Now().UTC()
		t.st.products[id] = p
		out = &p
		return nil
	})
	return out, err
}

func (r *productRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Product, error) {
	list := make([]*entity.Product, 0)
	err := access{r.t, r.db}.do(func(t *tx) error {
		for _, p := range t.st.products {
			if p.UserID == userID {
				list = append(list, &p)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), err
}

func (r *productRepo) SumStockByUser(_ context.Context, userID string) (int64, error) {
	var total int64
	err := access{r.t, r.db}.do(func(t *tx) error {
		for _, p := range t.st.products {
			if p.UserID == userID {
				total += p.Stock
			}
		}
		return nil
	})
	return total, err
}

func (r *productRepo) DeleteMany(_ context.Context, userID string, ids []string) (int64, error) {
	var n int64
	err := access{r.t, r.db}.do(func(t *tx) error {
		for _, id := range ids {
			if p, ok := t.st.products[id]; ok && p.UserID == userID {
				delete(t.st.products, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

type purchaseRepo struct {
	t  *tx
	db *DB
}

func (r *purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return access{r.t, r.db}.do(func(t *tx) error {
		if err := t.fault(FaultPurchaseCreate); err != nil {
			return err
		}
		t.st.purchases = append(t.st.purchases, *p)
		return nil
	})
}

func (r *purchaseRepo) GetByID(_ context.Context, userID, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := access{r.t, r.db}.do(func(t *tx) error {
		for _, p := range t.st.purchases {
			if p.ID == id && p.UserID == userID {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// ListByProduct más recientes primero (orden inverso de inserción).
func (r *purchaseRepo) ListByProduct(_ context.Context, userID, productID string, limit, offset int) ([]*entity.Purchase, error) {
	list := make([]*entity.Purchase, 0)
	err := access{r.t, r.db}.do(func(t *tx) error {
		for i := len(t.st.purchases) - 1; i >= 0; i-- {
			p := t.st.purchases[i]
			if p.UserID == userID && p.ProductID == productID {
				list = append(list, &p)
			}
		}
		return nil
	})
	return page(list, limit, offset), err
}

type outboxRepo struct {
	t  *tx
	db *DB
}

func (r *outboxRepo) Create(_ context.Context, e *entity.OutboxEvent) error {
	return access{r.t, r.db}.do(func(t *tx) error {
		if err := t.fault(FaultOutboxCreate); err != nil {
			return err
		}
		t.st.outbox = append(t.st.outbox, *e)
		return nil
	})
}

func (r *outboxRepo) ClaimPending(_ context.Context, limit int) ([]*entity.OutboxEvent, error) {
	list := make([]*entity.OutboxEvent, 0)
	err := access{r.t, r.db}.do(func(t *tx) error {
		for _, e := range t.st.outbox {
			if len(list) >= limit {
				break
			}
			if e.PublishedAt == nil {
				list = append(list, &e)
			}
		}
		return nil
	})
	return list, err
}

func (r *outboxRepo) MarkPublished(_ context.Context, ids []string) error {
	return access{r.t, r.db}.do(func(t *tx) error {
		if err := t.fault(FaultOutboxMarkPublished); err != nil {
			return err
		}
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		now := time.Now().UTC()
		for i := range t.st.outbox {
			if set[t.st.outbox[i].ID] && t.st.outbox[i].PublishedAt == nil {
				t.st.outbox[i].PublishedAt = &now
			}
		}
		return nil
	})
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
