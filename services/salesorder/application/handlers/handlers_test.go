package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/inventra/pkg/app"
	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/httpx"
	"github.com/ghuser/inventra/pkg/logger"
	"github.com/ghuser/inventra/services/salesorder/application/api"
	"github.com/ghuser/inventra/services/salesorder/application/handlers"
	appsvcs "github.com/ghuser/inventra/services/salesorder/application/services"
	"github.com/ghuser/inventra/services/salesorder/infrastructure/persistence/memory"
)

type keyStore struct {
	mu   sync.Mutex
	keys map[string]uuid.UUID
}

func (k *keyStore) Lookup(_ context.Context, orgID uuid.UUID, key string) (uuid.UUID, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	id, ok := k.keys[orgID.String()+key]
	return id, ok, nil
}

func (k *keyStore) Remember(_ context.Context, orgID uuid.UUID, key string, id uuid.UUID) (uuid.UUID, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if prev, ok := k.keys[orgID.String()+key]; ok {
		return prev, nil
	}
	k.keys[orgID.String()+key] = id
	return id, nil
}

type fixture struct {
	t      *testing.T
	store  *memory.Store
	router http.Handler
	org    uuid.UUID
	item   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, store: memory.New(), org: uuid.New(), item: uuid.New()}
	f.store.PutItem(f.org, f.item, "Widget", decimal.NewFromInt(10))

	svcs := &appsvcs.Services{SalesOrder: appsvcs.NewSalesOrderService(
		f.store, f.store, logger.Discard(),
		appsvcs.WithIdempotencyStore(&keyStore{keys: map[string]uuid.UUID{}}),
	)}
	r := chi.NewRouter()
	r.Use(auth.StaticOrg(f.org))
	api.Mount(r, svcs, &app.Application{Logger: logger.Discard()})
	f.router = r
	return f
}

func (f *fixture) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(f.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) stock() string {
	s, ok := f.store.Stock(f.item)
	require.True(f.t, ok)
	return s.String()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (f *fixture) order(status string, qty any) map[string]any {
	return map[string]any{
		"status": status,
		"items":  []map[string]any{{"item_id": f.item.String(), "quantity": qty, "rate": "2.5"}},
	}
}

func TestCreateConfirmedHoldsStock(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/sales-orders", f.order("confirmed", 4))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[handlers.SalesOrderResponse](t, rec)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, "new", got.FulfillmentStatus)
	assert.NotEmpty(t, got.OrderNumber)
	assert.NotNil(t, got.ConfirmedAt)
	assert.Equal(t, "6", f.stock())
}

func TestCreateDraftLeavesStock(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/sales-orders", f.order("", "4"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "draft", decode[handlers.SalesOrderResponse](t, rec).Status)
	assert.Equal(t, "10", f.stock())
}

func TestCreateInsufficientStock(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/sales-orders", f.order("confirmed", 11))
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	body := decode[httpx.ErrorBody](t, rec)
	details, ok := body.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, f.item.String(), details["item_id"])
	assert.Equal(t, "Widget", details["item_name"])
	assert.Equal(t, "10", details["available"])
	assert.Equal(t, "11", details["requested"])
	assert.Equal(t, "10", f.stock())
}

func TestCreateAcceptsStringEncodedItems(t *testing.T) {
	f := newFixture(t)
	items, err := json.Marshal([]map[string]any{{"item_id": f.item.String(), "quantity": "3"}})
	require.NoError(t, err)

	rec := f.do(http.MethodPost, "/sales-orders", map[string]any{
		"status":      "confirmed",
		"items":       string(items),
		"totals":      `{"total":"7.5","currency":"usd"}`,
		"attachments": "",
		"id":          uuid.NewString(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[handlers.SalesOrderResponse](t, rec)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "USD", got.Totals.Currency)
	assert.Empty(t, got.Attachments)
	assert.Equal(t, "7", f.stock())
}

func TestCreateRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `{"items":`},
		{"unknown status", map[string]any{"status": "shipped"}},
		{"negative quantity", f.order("draft", -1)},
		{"bad customer id", map[string]any{"customer_id": "not-a-uuid"}},
		{"bad order date", map[string]any{"order_date": "01/05/2026"}},
		{"quantity beyond four places", f.order("confirmed", "0.00004")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/sales-orders", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, "10", f.stock())
}

func TestCreateOnlyAsDraftOrConfirmed(t *testing.T) {
	f := newFixture(t)

	for _, st := range []string{"cancelled", "delivered"} {
		rec := f.do(http.MethodPost, "/sales-orders", f.order(st, 1))
		assert.Equal(t, http.StatusConflict, rec.Code, st)
	}
	page := decode[handlers.SalesOrderPage](t, f.do(http.MethodGet, "/sales-orders", nil))
	assert.Zero(t, page.Total)
	assert.Equal(t, "10", f.stock())
}

func TestCreateMalformedQuantityIsZero(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/sales-orders", f.order("confirmed", "lots"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "10", f.stock())
}

func TestCreateIdempotencyKeyReplays(t *testing.T) {
	f := newFixture(t)

	first := f.do(http.MethodPost, "/sales-orders", f.order("confirmed", 2), handlers.IdempotencyKeyHeader, "k-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := f.do(http.MethodPost, "/sales-orders", f.order("confirmed", 2), handlers.IdempotencyKeyHeader, "k-1")
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())

	assert.Equal(t,
		decode[handlers.SalesOrderResponse](t, first).ID,
		decode[handlers.SalesOrderResponse](t, second).ID)
	assert.Equal(t, "8", f.stock())
}

func TestDuplicateOrderNumber(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{"order_number": "SO-X"}

	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/sales-orders", body).Code)
	rec := f.do(http.MethodPost, "/sales-orders", body)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	details, ok := decode[httpx.ErrorBody](t, rec).Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "order_number", details["field"])
	assert.Equal(t, "SO-X", details["value"])
}

func TestStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	created := decode[handlers.SalesOrderResponse](t, f.do(http.MethodPost, "/sales-orders", f.order("draft", 3)))
	path := "/sales-orders/" + created.ID.String()

	steps := []struct {
		status    string
		wantCode  int
		wantStock string
	}{
		{"confirmed", http.StatusOK, "7"},
		{"draft", http.StatusOK, "10"},
		{"confirmed", http.StatusOK, "7"},
		{"cancelled", http.StatusOK, "10"},
		{"confirmed", http.StatusOK, "7"},
		{"delivered", http.StatusOK, "7"},
		{"cancelled", http.StatusConflict, "7"},
		{"bogus", http.StatusBadRequest, "7"},
	}
	for _, st := range steps {
		rec := f.do(http.MethodPatch, path+"/status", map[string]string{"status": st.status})
		require.Equal(t, st.wantCode, rec.Code, "to %s: %s", st.status, rec.Body.String())
		assert.Equal(t, st.wantStock, f.stock(), "after %s", st.status)
	}
}

func TestUpdateReconcilesQuantity(t *testing.T) {
	f := newFixture(t)
	created := decode[handlers.SalesOrderResponse](t, f.do(http.MethodPost, "/sales-orders", f.order("confirmed", 3)))
	path := "/sales-orders/" + created.ID.String()

	rec := f.do(http.MethodPut, path, f.order("", 5))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "confirmed", decode[handlers.SalesOrderResponse](t, rec).Status)
	assert.Equal(t, "5", f.stock())

	rec = f.do(http.MethodPut, path, f.order("", 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "9", f.stock())
}

func TestFulfillmentStatus(t *testing.T) {
	f := newFixture(t)
	created := decode[handlers.SalesOrderResponse](t, f.do(http.MethodPost, "/sales-orders", f.order("confirmed", 3)))
	path := "/sales-orders/" + created.ID.String() + "/fulfillment-status"

	rec := f.do(http.MethodPatch, path, map[string]string{"fulfillment_status": "shipped"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, decode[handlers.SalesOrderResponse](t, rec).ShippedAt)

	rec = f.do(http.MethodPatch, path, map[string]string{"fulfillment_status": "picking"})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPatch, path, map[string]string{"fulfillment_status": "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "7", f.stock())
}

func TestDeleteReleasesStock(t *testing.T) {
	f := newFixture(t)
	created := decode[handlers.SalesOrderResponse](t, f.do(http.MethodPost, "/sales-orders", f.order("confirmed", 3)))
	path := "/sales-orders/" + created.ID.String()

	rec := f.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "sales order deleted", decode[handlers.MessageResponse](t, rec).Message)
	assert.Equal(t, "10", f.stock())

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, path, nil).Code)
}

func TestGetAndList(t *testing.T) {
	f := newFixture(t)
	for _, st := range []string{"draft", "confirmed", "draft"} {
		require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/sales-orders", f.order(st, 1)).Code)
	}

	page := decode[handlers.SalesOrderPage](t, f.do(http.MethodGet, "/sales-orders?status=draft&limit=1", nil))
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.Limit)

	got := f.do(http.MethodGet, "/sales-orders/"+page.Data[0].ID.String(), nil)
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, "draft", decode[handlers.SalesOrderResponse](t, got).Status)

	far := decode[handlers.SalesOrderPage](t, f.do(http.MethodGet, "/sales-orders?offset=3000000000", nil))
	assert.Equal(t, httpx.MaxPageOffset, far.Offset)
	assert.Empty(t, far.Data)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/sales-orders?status=nope", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/sales-orders/not-a-uuid", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/sales-orders/"+uuid.NewString(), nil).Code)
}

func TestOtherOrgCannotSeeOrder(t *testing.T) {
	f := newFixture(t)
	created := decode[handlers.SalesOrderResponse](t, f.do(http.MethodPost, "/sales-orders", f.order("draft", 1)))

	svcs := &appsvcs.Services{SalesOrder: appsvcs.NewSalesOrderService(f.store, f.store, logger.Discard())}
	r := chi.NewRouter()
	r.Use(auth.StaticOrg(uuid.New()))
	api.Mount(r, svcs, &app.Application{Logger: logger.Discard()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales-orders/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMissingOrgIsUnauthorized(t *testing.T) {
	svcs := &appsvcs.Services{SalesOrder: appsvcs.NewSalesOrderService(memory.New(), memory.New(), logger.Discard())}
	r := chi.NewRouter()
	api.Mount(r, svcs, &app.Application{Logger: logger.Discard()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales-orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
