package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist in the org.
	ErrItemNotFound = errors.New("item not found")

	// ErrDuplicateSKU indicates another item in the org already uses the SKU.
	ErrDuplicateSKU = errors.New("duplicate sku")

	// ErrInvalidItem indicates the item violates domain constraints.
	ErrInvalidItem = errors.New("invalid item")
)
