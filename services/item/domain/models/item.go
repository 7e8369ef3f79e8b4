package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is the core aggregate for this bounded context. Stock is written only
// by sales order reconciliation; this context exposes it read-only.
type Item struct {
	ID        uuid.UUID
	OrgID     uuid.UUID // tenant scope, always filter by this in queries
	SKU       SKU
	Name      ItemName
	Rate      decimal.Decimal
	Stock     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem constructs an Item with a generated ID and the given opening stock.
func NewItem(orgID uuid.UUID, sku SKU, name ItemName, rate, openingStock decimal.Decimal) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:        uuid.New(),
		OrgID:     orgID,
		SKU:       sku,
		Name:      name,
		Rate:      rate,
		Stock:     openingStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Scale is the number of decimal places rate and stock are stored with.
// Values with more places would be rounded by the database.
const Scale = 4

// FitsScale reports whether d is representable with Scale decimal places.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(Scale))
}

// MovementKind classifies a stock movement ledger row.
type MovementKind string

const (
	MovementOpening      MovementKind = "opening"
	MovementOrderHold    MovementKind = "order_hold"
	MovementOrderRelease MovementKind = "order_release"
)

// StockMovement is one row of the per-item stock ledger.
type StockMovement struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	ItemID      uuid.UUID
	OrderID     *uuid.UUID // nil for opening stock
	Kind        MovementKind
	Quantity    decimal.Decimal // signed change
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	CreatedAt   time.Time
}
