package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-catalog-api/internal/application/catalog"
	"github.com/jhoicas/seller-catalog-api/internal/application/dto"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
	"github.com/jhoicas/seller-catalog-api/internal/infrastructure/cache"
	apphttp "github.com/jhoicas/seller-catalog-api/internal/interfaces/http"
	"github.com/jhoicas/seller-catalog-api/internal/testutil/memdb"
	"github.com/jhoicas/seller-catalog-api/pkg/logger"
)

type stubRenderer struct{}

func (stubRenderer) RenderPurchaseReceipt(_ context.Context, p *entity.Purchase) ([]byte, error) {
	return []byte("%PDF-" + p.ID), nil
}

type testEnv struct {
	app *fiber.App
	db  *memdb.DB
	t   *testing.T
}

func newEnv(t *testing.T, idem repository.IdempotencyStore) *testEnv {
	t.Helper()
	db := memdb.New()
	db.AddSeller("S1", "Acme")

	ledger := catalog.NewLedgerReader(db.Purchases())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Coordinator:    catalog.NewTransactionCoordinator(db, catalog.NewLedgerWriter(), logger.Nop(), nil),
		Store:          catalog.NewInventoryStore(db.Products()),
		Ledger:         ledger,
		Receipts:       catalog.NewReceiptUseCase(ledger, stubRenderer{}),
		Idempotency:    idem,
		IdempotencyTTL: time.Hour,
		JWTSecret:      testJWTSecret,
		Logger:         logger.Nop(),
	})
	return &testEnv{app: app, db: db, t: t}
}

func (e *testEnv) do(method, path string, body any, headers ...string) (*http.Response, []byte) {
	e.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(e.t, testUserID))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, out
}

func (e *testEnv) createWidget() dto.ProductResponse {
	e.t.Helper()
	resp, body := e.do(http.MethodPost, "/api/products", map[string]any{
		"name": "Widget", "price": 10, "seller": "S1", "stock": 5,
	})
	require.Equal(e.t, http.StatusCreated, resp.StatusCode, string(body))
	var p dto.ProductResponse
	require.NoError(e.t, json.Unmarshal(body, &p))
	return p
}

func TestProducts_CreateAddStockAndLedger(t *testing.T) {
	env := newEnv(t, nil)
	product := env.createWidget()
	assert.Equal(t, int64(5), product.Stock)
	assert.Equal(t, "10", product.Price.String())

	resp, body := env.do(http.MethodPost, "/api/products/"+product.ID+"/stock", map[string]any{"seller": "S1", "stock": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, int64(8), updated.Stock)

	resp, body = env.do(http.MethodGet, "/api/products/"+product.ID+"/purchases", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.PurchaseListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, entity.PurchaseTypeRestock, list.Items[0].Type)
	assert.Equal(t, "30", list.Items[0].TotalPrice.String())
	assert.Equal(t, "50", list.Items[1].TotalPrice.String())

	resp, body = env.do(http.MethodGet, "/api/stock/total", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total_stock":8}`, string(body))

	resp, body = env.do(http.MethodGet, "/api/purchases/"+list.Items[0].ID+"/receipt", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "%PDF-"+list.Items[0].ID, string(body))
}

func TestProducts_ErrorMapping(t *testing.T) {
	env := newEnv(t, nil)
	product := env.createWidget()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"vendedor inexistente", http.MethodPost, "/api/products", map[string]any{"name": "X", "price": 1, "seller": "S9"}, http.StatusBadRequest, "INVALID_REFERENCE"},
		{"campos ausentes", http.MethodPost, "/api/products", map[string]any{"seller": "S1"}, http.StatusBadRequest, "MISSING_FIELD"},
		{"precio no positivo", http.MethodPost, "/api/products", map[string]any{"name": "X", "price": -1, "seller": "S1"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"producto inexistente", http.MethodPost, "/api/products/nope/stock", map[string]any{"seller": "S1", "stock": 1}, http.StatusNotFound, "NOT_FOUND"},
		{"stock negativo", http.MethodPost, "/api/products/" + product.ID + "/stock", map[string]any{"seller": "S1", "stock": -50}, http.StatusConflict, "CONFLICT"},
		{"get inexistente", http.MethodGet, "/api/products/nope", nil, http.StatusNotFound, "NOT_FOUND"},
		{"bulk delete vacío", http.MethodDelete, "/api/products", map[string]any{"ids": []string{}}, http.StatusBadRequest, "MISSING_FIELD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			var e dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, tt.code, e.Code)
		})
	}

	resp, body := env.do(http.MethodPost, "/api/products/nope/stock", map[string]any{"seller": "S1", "stock": 1})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "stock update failed: ")
}

func TestProducts_BulkDeleteKeepsPurchases(t *testing.T) {
	env := newEnv(t, nil)
	product := env.createWidget()

	resp, body := env.do(http.MethodDelete, "/api/products", map[string]any{"ids": []string{product.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"deleted":1}`, string(body))

	resp, _ = env.do(http.MethodGet, "/api/products/"+product.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.do(http.MethodGet, "/api/products/"+product.ID+"/purchases", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.PurchaseListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 1)
}

func TestProducts_List(t *testing.T) {
	env := newEnv(t, nil)
	env.createWidget()
	env.createWidget()

	resp, body := env.do(http.MethodGet, "/api/products?limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ProductListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Limit)
}

func TestProducts_RequireToken(t *testing.T) {
	env := newEnv(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIdempotency_ReplaysCompletedResponse(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	env := newEnv(t, cache.NewRedisIdempotencyStore(client, ""))

	payload := map[string]any{"name": "Widget", "price": 10, "seller": "S1", "stock": 5}
	first, firstBody := env.do(http.MethodPost, "/api/products", payload, apphttp.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second, secondBody := env.do(http.MethodPost, "/api/products", payload, apphttp.HeaderIdempotencyKey, "k-1")
	assert.Equal(t, http.StatusCreated, second.StatusCode)
	assert.Equal(t, "true", second.Header.Get(apphttp.HeaderIdempotentReplay))
	assert.JSONEq(t, string(firstBody), string(secondBody))

	products, purchases, _ := env.db.Snapshot()
	assert.Len(t, products, 1, "el reintento no crea otro producto")
	assert.Len(t, purchases, 1)

	// Otra clave ejecuta de nuevo.
	third, _ := env.do(http.MethodPost, "/api/products", payload, apphttp.HeaderIdempotencyKey, "k-2")
	assert.Equal(t, http.StatusCreated, third.StatusCode)
	assert.Empty(t, third.Header.Get(apphttp.HeaderIdempotentReplay))
}

func TestIdempotency_RejectsKeyReuseWithOtherBody(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	env := newEnv(t, cache.NewRedisIdempotencyStore(client, ""))

	first, _ := env.do(http.MethodPost, "/api/products",
		map[string]any{"name": "Widget", "price": 10, "seller": "S1", "stock": 5},
		apphttp.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second, body := env.do(http.MethodPost, "/api/products",
		map[string]any{"name": "Gadget", "price": 99, "seller": "S1", "stock": 1},
		apphttp.HeaderIdempotencyKey, "k-1")
	assert.Equal(t, http.StatusUnprocessableEntity, second.StatusCode)
	assert.Contains(t, string(body), "IDEMPOTENCY_KEY_REUSED")
	assert.Empty(t, second.Header.Get(apphttp.HeaderIdempotentReplay))

	products, _, _ := env.db.Snapshot()
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
}

type pendingStore struct{}

func (pendingStore) Reserve(context.Context, string, string, time.Duration) (bool, error) {
	return false, nil
}
func (pendingStore) Lookup(context.Context, string) (*entity.IdempotentResponse, bool, error) {
	return nil, true, nil
}
func (pendingStore) Complete(context.Context, string, *entity.IdempotentResponse, time.Duration) error {
	return nil
}
func (pendingStore) Release(context.Context, string) error { return nil }

func TestIdempotency_InProgress(t *testing.T) {
	env := newEnv(t, pendingStore{})

	resp, body := env.do(http.MethodPost, "/api/products", map[string]any{"name": "W", "price": 1, "seller": "S1"},
		apphttp.HeaderIdempotencyKey, "busy")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "IDEMPOTENCY_IN_PROGRESS")

	products, _, _ := env.db.Snapshot()
	assert.Empty(t, products)
}
