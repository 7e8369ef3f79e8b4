// Package services contains the stock reconciliation rules for sales orders:
// quantity maps, the transition policy on both status axes, and the applier
// that writes stock changes through a unit of work.
package services

import (
	"github.com/shopspring/decimal"

	"github.com/ghuser/inventra/services/salesorder/domain/models"
)

// BuildQuantityMap sums line quantities per item. Lines without an item and
// lines with a non-positive quantity are left out. The result does not
// depend on line order.
func BuildQuantityMap(lines []models.Line) models.QuantityMap {
	q := models.QuantityMap{}
	for _, l := range lines {
		if l.ItemID == nil || !l.Quantity.IsPositive() {
			continue
		}
		q[*l.ItemID] = q[*l.ItemID].Add(l.Quantity)
	}
	return q
}

// DiffQuantityMaps returns newQty - oldQty for every item in either map,
// keeping only non-zero deltas. Missing keys count as zero.
func DiffQuantityMaps(oldMap, newMap models.QuantityMap) models.QuantityMap {
	delta := models.QuantityMap{}
	for id, qty := range newMap {
		if d := qty.Sub(oldMap[id]); !d.IsZero() {
			delta[id] = d
		}
	}
	for id, qty := range oldMap {
		if _, seen := newMap[id]; seen {
			continue
		}
		if !qty.IsZero() {
			delta[id] = qty.Neg()
		}
	}
	return delta
}

// SplitDelta separates a signed delta into quantities to hold (positive
// deltas, stock decreases) and quantities to release (negative deltas with
// the sign flipped, stock increases).
func SplitDelta(delta models.QuantityMap) (holds, releases models.QuantityMap) {
	holds, releases = models.QuantityMap{}, models.QuantityMap{}
	for id, d := range delta {
		switch d.Cmp(decimal.Zero) {
		case 1:
			holds[id] = d
		case -1:
			releases[id] = d.Neg()
		}
	}
	return holds, releases
}
