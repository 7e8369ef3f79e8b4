package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one row of a sales order. Lines have no identity of their own.
type Line struct {
	ItemID      *uuid.UUID      `json:"item_id,omitempty"` // nil for free-text lines
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Discount    decimal.Decimal `json:"discount"` // percent, 0-100
	TaxID       *uuid.UUID      `json:"tax_id,omitempty"`
}

// Totals is the monetary summary computed by the caller and stored as-is.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	Adjustment decimal.Decimal `json:"adjustment"`
	RoundOff   decimal.Decimal `json:"round_off"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency,omitempty"`
}

// Attachment is file metadata only; the file itself lives elsewhere.
type Attachment struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
}

// SalesOrder is the aggregate root of this bounded context.
type SalesOrder struct {
	ID          uuid.UUID
	OrgID       uuid.UUID // tenant scope, always filter by this in queries
	OrderNumber string

	Reference            string
	CustomerID           *uuid.UUID
	SalespersonID        *uuid.UUID
	PriceListID          *uuid.UUID
	OrderDate            *time.Time
	ExpectedShipmentDate *time.Time

	Status            Status
	FulfillmentStatus FulfillmentStatus

	Lines       []Line
	Totals      Totals
	Attachments []Attachment
	Notes       string
	Terms       string

	// Set once, on first entry into the status.
	ConfirmedAt *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
	ShippedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSalesOrder builds a draft order with a fresh id. Status, lines and header
// fields are applied by the caller through Apply and SetStatus.
func NewSalesOrder(orgID uuid.UUID, now time.Time) *SalesOrder {
	return &SalesOrder{
		ID:                uuid.New(),
		OrgID:             orgID,
		Status:            StatusDraft,
		FulfillmentStatus: FulfillmentNew,
		Lines:             []Line{},
		Attachments:       []Attachment{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Apply copies the editable fields of in onto o. Status is not touched.
func (o *SalesOrder) Apply(in OrderInput) {
	if in.OrderNumber != "" {
		o.OrderNumber = in.OrderNumber
	}
	o.Reference = in.Reference
	o.CustomerID = in.CustomerID
	o.SalespersonID = in.SalespersonID
	o.PriceListID = in.PriceListID
	o.OrderDate = in.OrderDate
	o.ExpectedShipmentDate = in.ExpectedShipmentDate
	o.Lines = slices.Clone(in.Lines)
	if o.Lines == nil {
		o.Lines = []Line{}
	}
	o.Totals = in.Totals
	o.Attachments = slices.Clone(in.Attachments)
	if o.Attachments == nil {
		o.Attachments = []Attachment{}
	}
	o.Notes = in.Notes
	o.Terms = in.Terms
}

// SetStatus moves the commercial status and stamps the matching timestamp
// the first time the status is entered.
func (o *SalesOrder) SetStatus(s Status, now time.Time) {
	o.Status = s
	switch s {
	case StatusConfirmed:
		stampOnce(&o.ConfirmedAt, now)
	case StatusDelivered:
		stampOnce(&o.DeliveredAt, now)
	case StatusCancelled:
		stampOnce(&o.CancelledAt, now)
	}
}

// SetFulfillmentStatus moves the fulfillment status; shipped is stamped once.
func (o *SalesOrder) SetFulfillmentStatus(s FulfillmentStatus, now time.Time) {
	o.FulfillmentStatus = s
	if s == FulfillmentShipped {
		stampOnce(&o.ShippedAt, now)
	}
}

func stampOnce(field **time.Time, now time.Time) {
	if *field == nil {
		t := now
		*field = &t
	}
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (o *SalesOrder) Clone() *SalesOrder {
	c := *o
	c.Lines = make([]Line, len(o.Lines))
	for i, l := range o.Lines {
		l.ItemID = cloneID(l.ItemID)
		l.TaxID = cloneID(l.TaxID)
		c.Lines[i] = l
	}
	c.Attachments = slices.Clone(o.Attachments)
	c.CustomerID = cloneID(o.CustomerID)
	c.SalespersonID = cloneID(o.SalespersonID)
	c.PriceListID = cloneID(o.PriceListID)
	c.OrderDate = cloneTime(o.OrderDate)
	c.ExpectedShipmentDate = cloneTime(o.ExpectedShipmentDate)
	c.ConfirmedAt = cloneTime(o.ConfirmedAt)
	c.DeliveredAt = cloneTime(o.DeliveredAt)
	c.CancelledAt = cloneTime(o.CancelledAt)
	c.ShippedAt = cloneTime(o.ShippedAt)
	return &c
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
