package models

import (
	"fmt"

	"github.com/ghuser/inventra/services/salesorder/domain"
)

// Status is the commercial lifecycle of a sales order. Only StatusConfirmed
// holds stock against the order.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every commercial status in lifecycle order.
var Statuses = []Status{StatusDraft, StatusConfirmed, StatusDelivered, StatusCancelled}

// ParseStatus validates s against the allowed set.
// Returns ErrInvalidStatus for anything else, including the empty string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidStatus, s)
	}
	return st, nil
}

// Valid reports whether s is one of the four commercial statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// FulfillmentStatus is the operational packing and shipping progress.
// It never moves stock.
type FulfillmentStatus string

const (
	FulfillmentNew       FulfillmentStatus = "new"
	FulfillmentPicking   FulfillmentStatus = "picking"
	FulfillmentPacking   FulfillmentStatus = "packing"
	FulfillmentReady     FulfillmentStatus = "ready"
	FulfillmentShipped   FulfillmentStatus = "shipped"
	FulfillmentDelivered FulfillmentStatus = "delivered"
	FulfillmentCancelled FulfillmentStatus = "cancelled"
)

// fulfillmentRank orders the forward path; cancelled sits outside it.
var fulfillmentRank = map[FulfillmentStatus]int{
	FulfillmentNew:       0,
	FulfillmentPicking:   1,
	FulfillmentPacking:   2,
	FulfillmentReady:     3,
	FulfillmentShipped:   4,
	FulfillmentDelivered: 5,
}

// ParseFulfillmentStatus validates s against the allowed set.
func ParseFulfillmentStatus(s string) (FulfillmentStatus, error) {
	fs := FulfillmentStatus(s)
	if !fs.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFulfillmentStatus, s)
	}
	return fs, nil
}

// Valid reports whether s is a recognized fulfillment status.
func (s FulfillmentStatus) Valid() bool {
	_, ok := fulfillmentRank[s]
	return ok || s == FulfillmentCancelled
}

// Terminal reports whether no further fulfillment moves are possible.
func (s FulfillmentStatus) Terminal() bool {
	return s == FulfillmentDelivered || s == FulfillmentCancelled
}

// Rank is the position on the forward path, or -1 for cancelled.
func (s FulfillmentStatus) Rank() int {
	if r, ok := fulfillmentRank[s]; ok {
		return r
	}
	return -1
}

func (s FulfillmentStatus) String() string { return string(s) }
