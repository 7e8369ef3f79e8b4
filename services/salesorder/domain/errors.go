package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for the sales order domain. Use errors.Is() to check these.
var (
	// ErrOrderNotFound indicates the requested sales order does not exist in the org.
	ErrOrderNotFound = errors.New("sales order not found")

	// ErrItemNotFound indicates a line references an item that no longer exists
	// at reconciliation time. Distinct from ErrOrderNotFound.
	ErrItemNotFound = errors.New("item not found")

	// ErrInsufficientStock indicates a decrease would drive an item's stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidStatus indicates the requested commercial status is not recognized.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidFulfillmentStatus indicates the requested fulfillment status is not recognized.
	ErrInvalidFulfillmentStatus = errors.New("invalid fulfillment status")

	// ErrInvalidTransition indicates a recognized status that cannot be reached
	// from the order's current state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDuplicateKey indicates a unique constraint violation (order number).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidOrderInput indicates malformed or missing request fields.
	ErrInvalidOrderInput = errors.New("invalid sales order input")
)

// InsufficientStockError carries the item and quantities behind an
// ErrInsufficientStock failure.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	ItemName  string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	label := e.ItemID.String()
	if e.ItemName != "" {
		label = fmt.Sprintf("%s (%s)", e.ItemName, e.ItemID)
	}
	return fmt.Sprintf("insufficient stock for item %s: available %s, requested %s",
		label, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ItemNotFoundError names the missing item behind an ErrItemNotFound failure.
type ItemNotFoundError struct {
	ItemID uuid.UUID
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s not found", e.ItemID)
}

func (e *ItemNotFoundError) Unwrap() error { return ErrItemNotFound }

// DuplicateKeyError echoes the conflicting field and value.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s: %s", e.Field, e.Value)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// TransitionError describes a rejected move on one of the two status axes.
type TransitionError struct {
	Axis string // "status" or "fulfillment_status"
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change %s from %s to %s", e.Axis, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
