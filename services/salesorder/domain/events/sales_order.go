package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Watermill topics published by the sales order context. All of them are
// written through the outbox inside the order's transaction.
const (
	TopicSalesOrderCreated       = "salesorder.created"
	TopicSalesOrderUpdated       = "salesorder.updated"
	TopicSalesOrderDeleted       = "salesorder.deleted"
	TopicSalesOrderStatusChanged = "salesorder.status_changed"
	TopicStockAdjusted           = "stock.adjusted"
)

// Event is implemented by every payload published from this context.
type Event interface {
	Topic() string
	Metadata() Meta
}

// Meta is the envelope shared by all events. It is embedded so its fields
// appear at the top level of the JSON payload.
type Meta struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	OrgID      uuid.UUID `json:"org_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewMeta stamps a fresh event id at schema version 1.
func NewMeta(orgID uuid.UUID, at time.Time) Meta {
	return Meta{EventID: uuid.New(), Version: 1, OrgID: orgID, OccurredAt: at}
}

func (m Meta) Metadata() Meta { return m }

// SalesOrderCreatedEvent is published after a new order is persisted.
type SalesOrderCreatedEvent struct {
	Meta
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
}

func (SalesOrderCreatedEvent) Topic() string { return TopicSalesOrderCreated }

// SalesOrderUpdatedEvent is published after an order's content is replaced.
type SalesOrderUpdatedEvent struct {
	Meta
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
}

func (SalesOrderUpdatedEvent) Topic() string { return TopicSalesOrderUpdated }

// SalesOrderDeletedEvent is published after an order is removed.
type SalesOrderDeletedEvent struct {
	Meta
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

func (SalesOrderDeletedEvent) Topic() string { return TopicSalesOrderDeleted }

// SalesOrderStatusChangedEvent is published for a move on either status axis.
type SalesOrderStatusChangedEvent struct {
	Meta
	OrderID uuid.UUID `json:"order_id"`
	Axis    string    `json:"axis"` // "status" or "fulfillment_status"
	From    string    `json:"from"`
	To      string    `json:"to"`
}

func (SalesOrderStatusChangedEvent) Topic() string { return TopicSalesOrderStatusChanged }

// StockAdjustedEvent lists every item whose stock changed in one transaction.
// The worker uses it to invalidate cached item stock.
type StockAdjustedEvent struct {
	Meta
	OrderID     uuid.UUID       `json:"order_id"`
	Adjustments []ItemStockDiff `json:"adjustments"`
}

// ItemStockDiff is one item's change inside a StockAdjustedEvent.
type ItemStockDiff struct {
	ItemID     uuid.UUID       `json:"item_id"`
	Change     decimal.Decimal `json:"change"`
	StockAfter decimal.Decimal `json:"stock_after"`
}

func (StockAdjustedEvent) Topic() string { return TopicStockAdjusted }
