package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewItem(t *testing.T) {
	orgID := uuid.New()
	rate := decimal.RequireFromString("12.50")
	stock := decimal.NewFromInt(40)

	t.Run("sets fields", func(t *testing.T) {
		item := NewItem(orgID, "WID-1", "Widget", rate, stock)
		if item.ID == uuid.Nil {
			t.Fatal("expected non-zero UUID for ID")
		}
		if item.OrgID != orgID || item.SKU != "WID-1" || item.Name != "Widget" {
			t.Fatalf("unexpected item %+v", item)
		}
		if !item.Rate.Equal(rate) || !item.Stock.Equal(stock) {
			t.Fatalf("rate/stock = %s/%s", item.Rate, item.Stock)
		}
	})

	t.Run("stamps CreatedAt and UpdatedAt in UTC", func(t *testing.T) {
		before := time.Now().UTC()
		item := NewItem(orgID, "WID-1", "Widget", rate, stock)
		after := time.Now().UTC()
		if item.CreatedAt.Before(before) || item.CreatedAt.After(after) {
			t.Fatalf("CreatedAt %v not between %v and %v", item.CreatedAt, before, after)
		}
		if !item.UpdatedAt.Equal(item.CreatedAt) {
			t.Fatal("expected UpdatedAt == CreatedAt on a new item")
		}
	})

	t.Run("generates unique IDs on each call", func(t *testing.T) {
		a := NewItem(orgID, "A", "A", rate, stock)
		b := NewItem(orgID, "A", "A", rate, stock)
		if a.ID == b.ID {
			t.Fatal("expected unique IDs, got identical")
		}
	})
}
