package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderInput is the parsed, strongly-typed form of a create or update request.
// Internal fields (id, org, timestamps, fulfillment status) cannot be expressed here.
type OrderInput struct {
	OrderNumber          string
	Reference            string
	CustomerID           *uuid.UUID
	SalespersonID        *uuid.UUID
	PriceListID          *uuid.UUID
	OrderDate            *time.Time
	ExpectedShipmentDate *time.Time

	// Status is the requested commercial status; empty keeps the current one
	// on update and means draft on create.
	Status Status

	Lines       []Line
	Totals      Totals
	Attachments []Attachment
	Notes       string
	Terms       string
}
