package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/inventra/pkg/httpx"
	"github.com/ghuser/inventra/services/item/domain/models"
	"github.com/ghuser/inventra/services/item/domain/repositories"
)

// ItemResponse is the JSON representation of an item.
type ItemResponse struct {
	ID        uuid.UUID       `json:"id"         example:"123e4567-e89b-12d3-a456-426614174000"`
	OrgID     uuid.UUID       `json:"org_id"     example:"550e8400-e29b-41d4-a716-446655440000"`
	SKU       string          `json:"sku"        example:"WID-001"`
	Name      string          `json:"name"       example:"Blue Widget"`
	Rate      decimal.Decimal `json:"rate"       swaggertype:"string" example:"12.50"`
	Stock     decimal.Decimal `json:"stock"      swaggertype:"string" example:"96"`
	CreatedAt time.Time       `json:"created_at" example:"2026-05-01T08:00:00Z"`
	UpdatedAt time.Time       `json:"updated_at" example:"2026-05-01T08:00:00Z"`
} // @name ItemResponse

// ItemPage is the paginated list of items.
type ItemPage struct {
	Data   []ItemResponse `json:"data"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
} // @name ItemPage

// StockMovementResponse is one row of an item's stock ledger.
type StockMovementResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemID      uuid.UUID       `json:"item_id"`
	OrderID     *uuid.UUID      `json:"order_id,omitempty"`
	Kind        string          `json:"kind" example:"order_hold"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string" example:"-4"`
	StockBefore decimal.Decimal `json:"stock_before" swaggertype:"string" example:"100"`
	StockAfter  decimal.Decimal `json:"stock_after" swaggertype:"string" example:"96"`
	CreatedAt   time.Time       `json:"created_at"`
} // @name StockMovementResponse

// StockMovementPage is the paginated stock ledger.
type StockMovementPage struct {
	Data   []StockMovementResponse `json:"data"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
} // @name StockMovementPage

func toItemResponse(it *models.Item) ItemResponse {
	return ItemResponse{
		ID:        it.ID,
		OrgID:     it.OrgID,
		SKU:       it.SKU.String(),
		Name:      it.Name.String(),
		Rate:      it.Rate,
		Stock:     it.Stock,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

func toMovementResponse(m *models.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		OrderID:     m.OrderID,
		Kind:        string(m.Kind),
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		CreatedAt:   m.CreatedAt,
	}
}

func itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid item id")
		return uuid.Nil, false
	}
	return id, true
}

func queryOpts(r *http.Request) repositories.QueryOpts {
	limit, offset := httpx.Pagination(r)
	return repositories.QueryOpts{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  limit,
		Offset: offset,
	}
}
