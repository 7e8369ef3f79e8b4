package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/inventra/pkg/httpx"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
)

// SalesOrderResponse is the JSON representation of a sales order.
type SalesOrderResponse struct {
	ID                   uuid.UUID           `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	OrgID                uuid.UUID           `json:"org_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	OrderNumber          string              `json:"order_number" example:"SO-00001"`
	Reference            string              `json:"reference,omitempty"`
	CustomerID           *uuid.UUID          `json:"customer_id,omitempty"`
	SalespersonID        *uuid.UUID          `json:"salesperson_id,omitempty"`
	PriceListID          *uuid.UUID          `json:"price_list_id,omitempty"`
	OrderDate            *time.Time          `json:"order_date,omitempty"`
	ExpectedShipmentDate *time.Time          `json:"expected_shipment_date,omitempty"`
	Status               string              `json:"status" example:"confirmed"`
	FulfillmentStatus    string              `json:"fulfillment_status" example:"new"`
	Items                []models.Line       `json:"items"`
	Totals               models.Totals       `json:"totals"`
	Attachments          []models.Attachment `json:"attachments"`
	Notes                string              `json:"notes,omitempty"`
	Terms                string              `json:"terms,omitempty"`
	ConfirmedAt          *time.Time          `json:"confirmed_at,omitempty"`
	DeliveredAt          *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt          *time.Time          `json:"cancelled_at,omitempty"`
	ShippedAt            *time.Time          `json:"shipped_at,omitempty"`
	CreatedAt            time.Time           `json:"created_at" example:"2026-05-01T08:00:00Z"`
	UpdatedAt            time.Time           `json:"updated_at" example:"2026-05-01T08:00:00Z"`
} // @name SalesOrderResponse

// SalesOrderPage is the paginated list response, spelled out for swag.
type SalesOrderPage struct {
	Data   []SalesOrderResponse `json:"data"`
	Total  int                  `json:"total" example:"42"`
	Limit  int                  `json:"limit" example:"25"`
	Offset int                  `json:"offset" example:"0"`
} // @name SalesOrderPage

// MessageResponse acknowledges an operation with no resource body.
type MessageResponse struct {
	Message string `json:"message" example:"sales order deleted"`
} // @name MessageResponse

func toResponse(o *models.SalesOrder) SalesOrderResponse {
	lines := o.Lines
	if lines == nil {
		lines = []models.Line{}
	}
	atts := o.Attachments
	if atts == nil {
		atts = []models.Attachment{}
	}
	return SalesOrderResponse{
		ID:                   o.ID,
		OrgID:                o.OrgID,
		OrderNumber:          o.OrderNumber,
		Reference:            o.Reference,
		CustomerID:           o.CustomerID,
		SalespersonID:        o.SalespersonID,
		PriceListID:          o.PriceListID,
		OrderDate:            o.OrderDate,
		ExpectedShipmentDate: o.ExpectedShipmentDate,
		Status:               o.Status.String(),
		FulfillmentStatus:    o.FulfillmentStatus.String(),
		Items:                lines,
		Totals:               o.Totals,
		Attachments:          atts,
		Notes:                o.Notes,
		Terms:                o.Terms,
		ConfirmedAt:          o.ConfirmedAt,
		DeliveredAt:          o.DeliveredAt,
		CancelledAt:          o.CancelledAt,
		ShippedAt:            o.ShippedAt,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// orderID parses the {id} path parameter, writing 400 when it is not a UUID.
func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid sales order id")
		return uuid.Nil, false
	}
	return id, true
}
