package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/inventra/services/salesorder/domain/models"
	"github.com/ghuser/inventra/services/salesorder/infrastructure/persistence/postgres/db"
)

func TestRowMapping_PreservesOrder(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	itemID, customerID := uuid.New(), uuid.New()

	o := models.NewSalesOrder(uuid.New(), now)
	o.OrderNumber = "SO-0042"
	o.CustomerID = &customerID
	o.Lines = []models.Line{{
		ItemID:   &itemID,
		Quantity: decimal.RequireFromString("2.5"),
		Rate:     decimal.RequireFromString("19.99"),
		Discount: decimal.NewFromInt(10),
	}}
	o.Totals = models.Totals{Total: decimal.RequireFromString("44.98"), Currency: "USD"}
	o.Attachments = []models.Attachment{{Name: "po.pdf", URL: "https://files.example/po.pdf", Size: 1024}}
	o.SetStatus(models.StatusConfirmed, now)

	p, err := insertParams(o)
	if err != nil {
		t.Fatalf("insertParams: %v", err)
	}
	if !p.CustomerID.Valid || p.SalespersonID.Valid {
		t.Fatalf("nullable ids mapped wrong: %+v / %+v", p.CustomerID, p.SalespersonID)
	}

	got, err := rowToOrder(db.SalesorderOrder{
		ID: p.ID, OrgID: p.OrgID, OrderNumber: p.OrderNumber, Reference: p.Reference,
		CustomerID: p.CustomerID, SalespersonID: p.SalespersonID, PriceListID: p.PriceListID,
		OrderDate: p.OrderDate, ExpectedShipmentDate: p.ExpectedShipmentDate,
		Status: p.Status, FulfillmentStatus: p.FulfillmentStatus,
		Lines: p.Lines, Totals: p.Totals, Attachments: p.Attachments,
		Notes: p.Notes, Terms: p.Terms,
		ConfirmedAt: p.ConfirmedAt, DeliveredAt: p.DeliveredAt, CancelledAt: p.CancelledAt, ShippedAt: p.ShippedAt,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	})
	if err != nil {
		t.Fatalf("rowToOrder: %v", err)
	}

	if got.Status != models.StatusConfirmed || got.ConfirmedAt == nil || !got.ConfirmedAt.Equal(now) {
		t.Fatalf("status/confirmed_at lost: %v %v", got.Status, got.ConfirmedAt)
	}
	if got.CustomerID == nil || *got.CustomerID != customerID || got.SalespersonID != nil {
		t.Fatalf("customer/salesperson lost: %v %v", got.CustomerID, got.SalespersonID)
	}
	if len(got.Lines) != 1 || *got.Lines[0].ItemID != itemID || !got.Lines[0].Quantity.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("lines lost: %+v", got.Lines)
	}
	if got.Totals.Currency != "USD" || !got.Totals.Total.Equal(decimal.RequireFromString("44.98")) {
		t.Fatalf("totals lost: %+v", got.Totals)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Size != 1024 {
		t.Fatalf("attachments lost: %+v", got.Attachments)
	}
}

func TestRowToOrder_EmptyDocuments(t *testing.T) {
	got, err := rowToOrder(db.SalesorderOrder{ID: uuid.New(), Status: "draft", FulfillmentStatus: "new"})
	if err != nil {
		t.Fatalf("rowToOrder: %v", err)
	}
	if got.Lines == nil || got.Attachments == nil {
		t.Fatal("expected empty, non-nil slices")
	}
}

func TestRowToOrder_CorruptLines(t *testing.T) {
	if _, err := rowToOrder(db.SalesorderOrder{ID: uuid.New(), Lines: []byte(`{"not":"an array"}`)}); err == nil {
		t.Fatal("expected error for corrupt lines document")
	}
}
