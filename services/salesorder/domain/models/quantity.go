package models

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuantityMap maps an item id to a total quantity (or a signed delta).
type QuantityMap map[uuid.UUID]decimal.Decimal

// ItemIDs returns the keys in ascending byte order. Stock rows are always
// locked in this order so concurrent orders cannot deadlock each other.
func (q QuantityMap) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(q))
	for id := range q {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

// Equal reports whether both maps hold the same quantities.
func (q QuantityMap) Equal(other QuantityMap) bool {
	if len(q) != len(other) {
		return false
	}
	for id, qty := range q {
		o, ok := other[id]
		if !ok || !o.Equal(qty) {
			return false
		}
	}
	return true
}
