package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/inventra/pkg/app"
	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/logger"
	"github.com/ghuser/inventra/services/item/application/api"
	"github.com/ghuser/inventra/services/item/application/handlers"
	appsvcs "github.com/ghuser/inventra/services/item/application/services"
	itemdomain "github.com/ghuser/inventra/services/item/domain"
	"github.com/ghuser/inventra/services/item/domain/models"
	"github.com/ghuser/inventra/services/item/domain/repositories"
)

type memRepo struct {
	mu        sync.Mutex
	items     []*models.Item
	movements []*models.StockMovement
}

func (m *memRepo) Save(_ context.Context, it *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.items {
		if other.OrgID == it.OrgID && other.SKU == it.SKU {
			return itemdomain.ErrDuplicateSKU
		}
	}
	m.items = append(m.items, it)
	m.movements = append(m.movements, &models.StockMovement{
		ID: uuid.New(), OrgID: it.OrgID, ItemID: it.ID, Kind: models.MovementOpening,
		Quantity: it.Stock, StockAfter: it.Stock, CreatedAt: it.CreatedAt,
	})
	return nil
}

func (m *memRepo) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == id && it.OrgID == orgID {
			return it, nil
		}
	}
	return nil, itemdomain.ErrItemNotFound
}

func (m *memRepo) Search(_ context.Context, orgID uuid.UUID, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(opts.Query)
	var out []*models.Item
	for _, it := range m.items {
		if it.OrgID != orgID {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(it.Name.String()), q) ||
			strings.Contains(strings.ToLower(it.SKU.String()), q) {
			out = append(out, it)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) Movements(_ context.Context, _, itemID uuid.UUID, _ repositories.QueryOpts) ([]*models.StockMovement, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.StockMovement
	for _, mv := range m.movements {
		if mv.ItemID == itemID {
			out = append(out, mv)
		}
	}
	return out, len(out), nil
}

func newRouter(orgID uuid.UUID, repo *memRepo) http.Handler {
	svcs := &appsvcs.Services{Item: appsvcs.NewItemService(repo, nil, logger.Discard())}
	r := chi.NewRouter()
	r.Use(auth.StaticOrg(orgID))
	api.Mount(r, svcs, &app.Application{Logger: logger.Discard()})
	return r
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPostItem(t *testing.T) {
	orgID := uuid.New()
	h := newRouter(orgID, &memRepo{})

	rec := serve(t, h, http.MethodPost, "/items", `{"sku":"WID-001","name":"Blue Widget","rate":"12.5","opening_stock":100}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got handlers.ItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.OrgID != orgID || got.SKU != "WID-001" || got.Stock.String() != "100" {
		t.Fatalf("unexpected item: %+v", got)
	}

	rec = serve(t, h, http.MethodPost, "/items", `{"sku":"WID-001","name":"Other Widget"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate sku, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPostItem_Invalid(t *testing.T) {
	h := newRouter(uuid.New(), &memRepo{})

	tests := []struct {
		name string
		body string
	}{
		{"missing sku", `{"name":"Blue Widget"}`},
		{"short name", `{"sku":"W1","name":"ab"}`},
		{"negative stock", `{"sku":"W1","name":"Blue Widget","opening_stock":-1}`},
		{"stock beyond four places", `{"sku":"W1","name":"Blue Widget","opening_stock":"1.00004"}`},
		{"lowercase sku", `{"sku":"w 1","name":"Blue Widget"}`},
		{"malformed json", `{"sku":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, http.MethodPost, "/items", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetItemAndMovements(t *testing.T) {
	orgID := uuid.New()
	repo := &memRepo{}
	h := newRouter(orgID, repo)

	rec := serve(t, h, http.MethodPost, "/items", `{"sku":"WID-002","name":"Red Widget","opening_stock":"5"}`)
	var created handlers.ItemResponse
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = serve(t, h, http.MethodGet, "/items/"+created.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(t, h, http.MethodGet, "/items/"+created.ID.String()+"/movements", "")
	var page handlers.StockMovementPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 1 || page.Data[0].Kind != "opening" || page.Data[0].StockAfter.String() != "5" {
		t.Fatalf("unexpected ledger: %+v", page)
	}

	if rec := serve(t, h, http.MethodGet, "/items/"+uuid.NewString(), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := serve(t, h, http.MethodGet, "/items/nope/movements", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	other := newRouter(uuid.New(), repo)
	if rec := serve(t, other, http.MethodGet, "/items/"+created.ID.String(), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 across orgs, got %d", rec.Code)
	}
}

func TestListItems(t *testing.T) {
	h := newRouter(uuid.New(), &memRepo{})
	for _, body := range []string{
		`{"sku":"BLU-1","name":"Blue Widget"}`,
		`{"sku":"RED-1","name":"Red Widget"}`,
		`{"sku":"BLU-2","name":"Blue Gadget"}`,
	} {
		if rec := serve(t, h, http.MethodPost, "/items", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec := serve(t, h, http.MethodGet, "/items?q=blu", "")
	var page handlers.ItemPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 2 || len(page.Data) != 2 {
		t.Fatalf("expected 2 matches, got %+v", page)
	}
}
