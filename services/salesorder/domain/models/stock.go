package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockScale is the number of decimal places item stock is stored with.
// A quantity with more places would be rounded when written back, so the
// stock taken would differ from the quantity the order records.
const StockScale = 4

// FitsStockScale reports whether q is representable with StockScale places.
func FitsStockScale(q decimal.Decimal) bool {
	return q.Equal(q.Round(StockScale))
}

// StockLevel is an item's on-hand quantity as read inside a transaction.
type StockLevel struct {
	ItemID uuid.UUID
	Name   string
	Stock  decimal.Decimal
}

// MovementKind classifies a stock ledger entry.
type MovementKind string

const (
	MovementOrderHold    MovementKind = "order_hold"
	MovementOrderRelease MovementKind = "order_release"
)

// StockAdjustment is one applied change to an item's stock.
type StockAdjustment struct {
	ItemID  uuid.UUID
	OrderID uuid.UUID
	Kind    MovementKind
	Change  decimal.Decimal // negative for holds
	Before  decimal.Decimal
	After   decimal.Decimal
}
