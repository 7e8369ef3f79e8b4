package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/inventra/services/item/domain/events"
)

func TestItemCreatedEvent_JSONFieldNames(t *testing.T) {
	evt := events.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     uuid.New(),
		OrgID:      uuid.New(),
		SKU:        "WID-1",
		Name:       "Widget",
		Rate:       decimal.RequireFromString("9.99"),
		Stock:      decimal.NewFromInt(12),
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}

	for _, field := range []string{"event_id", "version", "item_id", "org_id", "sku", "name", "rate", "stock", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
	// decimals travel as strings so no precision is lost between processes
	if raw["stock"] != "12" {
		t.Errorf("stock encoded as %v (%T), want string \"12\"", raw["stock"], raw["stock"])
	}
}

func TestTopicItemCreated_Value(t *testing.T) {
	if events.TopicItemCreated != "item.created" {
		t.Errorf("expected %q, got %q", "item.created", events.TopicItemCreated)
	}
}
