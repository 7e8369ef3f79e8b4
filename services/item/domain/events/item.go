package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicItemCreated is the Watermill topic published when an Item is created.
const TopicItemCreated = "item.created"

// ItemCreatedEvent is published after a new Item is persisted.
// The worker uses it to warm the item cache.
type ItemCreatedEvent struct {
	EventID    uuid.UUID       `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int             `json:"version"`  // Schema version; increment on breaking changes
	ItemID     uuid.UUID       `json:"item_id"`
	OrgID      uuid.UUID       `json:"org_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Rate       decimal.Decimal `json:"rate"`
	Stock      decimal.Decimal `json:"stock"`
	OccurredAt time.Time       `json:"occurred_at"`
}
