package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestTypedErrors_UnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"insufficient stock", &InsufficientStockError{ItemID: uuid.New()}, ErrInsufficientStock},
		{"item not found", &ItemNotFoundError{ItemID: uuid.New()}, ErrItemNotFound},
		{"duplicate key", &DuplicateKeyError{Field: "order_number", Value: "SO-0001"}, ErrDuplicateKey},
		{"transition", &TransitionError{Axis: "status", From: "delivered", To: "cancelled"}, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("apply stock: %w", tt.err)
			if !errors.Is(wrapped, tt.target) {
				t.Fatalf("errors.Is(%v, %v) = false", wrapped, tt.target)
			}
		})
	}
}

func TestInsufficientStockError_Message(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	err := &InsufficientStockError{
		ItemID:    id,
		ItemName:  "Widget",
		Available: decimal.NewFromInt(10),
		Requested: decimal.NewFromInt(100),
	}
	want := "insufficient stock for item Widget (550e8400-e29b-41d4-a716-446655440000): available 10, requested 100"
	if err.Error() != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", err.Error(), want)
	}

	var target *InsufficientStockError
	if !errors.As(fmt.Errorf("confirm: %w", err), &target) || target.ItemID != id {
		t.Fatal("errors.As must recover the typed error")
	}
}

func TestDuplicateKeyError_Message(t *testing.T) {
	err := &DuplicateKeyError{Field: "order_number", Value: "SO-0007"}
	if err.Error() != "duplicate order_number: SO-0007" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
