package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	pkgvalidator "github.com/ghuser/inventra/pkg/validator"
	"github.com/ghuser/inventra/services/salesorder/domain"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
)

const (
	orderStatusMessage       = "Must be one of: draft, confirmed, delivered, cancelled"
	fulfillmentStatusMessage = "Must be one of: new, picking, packing, ready, shipped, delivered, cancelled"
)

func init() {
	pkgvalidator.RegisterValidation("order_status", orderStatusMessage, func(v string) bool {
		return models.Status(v).Valid()
	})
	pkgvalidator.RegisterValidation("fulfillment_status", fulfillmentStatusMessage, func(v string) bool {
		return models.FulfillmentStatus(v).Valid()
	})
	pkgvalidator.RegisterCustomType(func(v reflect.Value) any {
		if n, ok := v.Interface().(Number); ok {
			f, _ := n.Float64()
			return f
		}
		return nil
	}, Number{})
}

// Number is a decimal that accepts a JSON number, a numeric string, null or
// an empty string. Values that do not parse as a number decode to zero, the
// way form-encoded clients expect blank inputs to behave.
type Number struct {
	decimal.Decimal
} // @name Number

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		n.Decimal = decimal.Zero
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		d = decimal.Zero
	}
	n.Decimal = d
	return nil
}

// unmarshalEmbedded decodes b into v, also accepting the JSON document
// wrapped in a string, as sent by multipart form clients.
func unmarshalEmbedded(b []byte, v any) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		b = []byte(s)
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	return json.Unmarshal(b, v)
}

// LineRequest is one order line in a create or update payload.
type LineRequest struct {
	ItemID      string `json:"item_id" validate:"omitempty,uuid" example:"8b1f6a7e-2f0c-4a53-9d58-0d0f8c6b7a10"`
	Description string `json:"description" validate:"max=2000"`
	Quantity    Number `json:"quantity" validate:"gte=0" swaggertype:"string" example:"3"`
	Rate        Number `json:"rate" validate:"gte=0" swaggertype:"string" example:"12.50"`
	Discount    Number `json:"discount" swaggertype:"string" example:"0"` // percent, clamped to 0-100
	TaxID       string `json:"tax_id" validate:"omitempty,uuid"`
} // @name SalesOrderLineRequest

// LineList accepts an array of lines or the same array encoded as a string.
type LineList []LineRequest

func (l *LineList) UnmarshalJSON(b []byte) error {
	var lines []LineRequest
	if err := unmarshalEmbedded(b, &lines); err != nil {
		return fmt.Errorf("items: %w", err)
	}
	*l = lines
	return nil
}

// AttachmentRequest is file metadata; the file itself is uploaded elsewhere.
type AttachmentRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	URL         string `json:"url" validate:"required,url"`
	Size        Number `json:"size" validate:"gte=0" swaggertype:"string"`
	ContentType string `json:"content_type" validate:"max=255"`
} // @name SalesOrderAttachmentRequest

// AttachmentList accepts an array of attachments or the array encoded as a string.
type AttachmentList []AttachmentRequest

func (l *AttachmentList) UnmarshalJSON(b []byte) error {
	var atts []AttachmentRequest
	if err := unmarshalEmbedded(b, &atts); err != nil {
		return fmt.Errorf("attachments: %w", err)
	}
	*l = atts
	return nil
}

// TotalsRequest is the monetary summary computed by the client.
type TotalsRequest struct {
	Subtotal   Number `json:"subtotal" swaggertype:"string"`
	Tax        Number `json:"tax" swaggertype:"string"`
	Shipping   Number `json:"shipping" swaggertype:"string"`
	Adjustment Number `json:"adjustment" swaggertype:"string"`
	RoundOff   Number `json:"round_off" swaggertype:"string"`
	Total      Number `json:"total" swaggertype:"string"`
	Currency   string `json:"currency" validate:"omitempty,len=3"`
} // @name SalesOrderTotalsRequest

func (t *TotalsRequest) UnmarshalJSON(b []byte) error {
	type plain TotalsRequest
	var p plain
	if err := unmarshalEmbedded(b, &p); err != nil {
		return fmt.Errorf("totals: %w", err)
	}
	*t = TotalsRequest(p)
	return nil
}

// SalesOrderRequest is the body of POST and PUT /sales-orders. Server-owned
// fields (id, org_id, timestamps, fulfillment_status) are ignored if sent.
type SalesOrderRequest struct {
	OrderNumber          string         `json:"order_number" validate:"max=64" example:"SO-0001"`
	Reference            string         `json:"reference" validate:"max=255"`
	CustomerID           string         `json:"customer_id" validate:"omitempty,uuid"`
	SalespersonID        string         `json:"salesperson_id" validate:"omitempty,uuid"`
	PriceListID          string         `json:"price_list_id" validate:"omitempty,uuid"`
	OrderDate            string         `json:"order_date" example:"2026-05-01"`
	ExpectedShipmentDate string         `json:"expected_shipment_date" example:"2026-05-08"`
	Status               string         `json:"status" validate:"omitempty,order_status" example:"draft"`
	Items                LineList       `json:"items" validate:"dive"`
	Totals               TotalsRequest  `json:"totals"`
	Attachments          AttachmentList `json:"attachments" validate:"dive"`
	Notes                string         `json:"notes" validate:"max=5000"`
	Terms                string         `json:"terms" validate:"max=5000"`
} // @name SalesOrderRequest

var (
	hundred = decimal.NewFromInt(100)

	// Free text is stored as plain text; markup is dropped on the way in.
	textPolicy = bluemonday.StrictPolicy()
)

func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// ToInput converts a validated request into the typed order input. It fails
// with ErrInvalidOrderInput on identifiers or dates that do not parse.
func (r *SalesOrderRequest) ToInput() (models.OrderInput, error) {
	var (
		in  models.OrderInput
		err error
	)
	in.OrderNumber = strings.TrimSpace(r.OrderNumber)
	in.Reference = plainText(r.Reference)
	in.Status = models.Status(r.Status)
	in.Notes = plainText(r.Notes)
	in.Terms = plainText(r.Terms)

	if in.CustomerID, err = parseOptionalID("customer_id", r.CustomerID); err != nil {
		return in, err
	}
	if in.SalespersonID, err = parseOptionalID("salesperson_id", r.SalespersonID); err != nil {
		return in, err
	}
	if in.PriceListID, err = parseOptionalID("price_list_id", r.PriceListID); err != nil {
		return in, err
	}
	if in.OrderDate, err = parseOptionalDate("order_date", r.OrderDate); err != nil {
		return in, err
	}
	if in.ExpectedShipmentDate, err = parseOptionalDate("expected_shipment_date", r.ExpectedShipmentDate); err != nil {
		return in, err
	}

	in.Lines = make([]models.Line, 0, len(r.Items))
	for i, l := range r.Items {
		itemID, err := parseOptionalID(fmt.Sprintf("items[%d].item_id", i), l.ItemID)
		if err != nil {
			return in, err
		}
		taxID, err := parseOptionalID(fmt.Sprintf("items[%d].tax_id", i), l.TaxID)
		if err != nil {
			return in, err
		}
		if !models.FitsStockScale(l.Quantity.Decimal) {
			return in, fmt.Errorf("%w: items[%d].quantity allows at most %d decimal places",
				domain.ErrInvalidOrderInput, i, models.StockScale)
		}
		in.Lines = append(in.Lines, models.Line{
			ItemID:      itemID,
			Description: plainText(l.Description),
			Quantity:    l.Quantity.Decimal,
			Rate:        l.Rate.Decimal,
			Discount:    clamp(l.Discount.Decimal, decimal.Zero, hundred),
			TaxID:       taxID,
		})
	}

	in.Totals = models.Totals{
		Subtotal:   r.Totals.Subtotal.Decimal,
		Tax:        r.Totals.Tax.Decimal,
		Shipping:   r.Totals.Shipping.Decimal,
		Adjustment: r.Totals.Adjustment.Decimal,
		RoundOff:   r.Totals.RoundOff.Decimal,
		Total:      r.Totals.Total.Decimal,
	}
	if code := strings.TrimSpace(r.Totals.Currency); code != "" {
		unit, err := currency.ParseISO(code)
		if err != nil {
			return in, fmt.Errorf("%w: totals.currency %q is not an ISO 4217 code", domain.ErrInvalidOrderInput, code)
		}
		in.Totals.Currency = unit.String()
	}

	in.Attachments = make([]models.Attachment, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		in.Attachments = append(in.Attachments, models.Attachment{
			Name:        plainText(a.Name),
			URL:         a.URL,
			Size:        a.Size.IntPart(),
			ContentType: a.ContentType,
		})
	}
	return in, nil
}

func parseOptionalID(field, s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid id", domain.ErrInvalidOrderInput, field)
	}
	return &id, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", domain.ErrInvalidOrderInput, field)
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	switch {
	case d.LessThan(lo):
		return lo
	case d.GreaterThan(hi):
		return hi
	default:
		return d
	}
}
