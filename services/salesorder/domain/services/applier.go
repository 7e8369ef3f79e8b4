package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/inventra/services/salesorder/domain"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
	"github.com/ghuser/inventra/services/salesorder/domain/repositories"
)

// Direction says which way the applier moves stock.
type Direction int

const (
	Decrease Direction = iota + 1
	Increase
)

func (d Direction) String() string {
	switch d {
	case Decrease:
		return "decrease"
	case Increase:
		return "increase"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ApplyStockChange moves stock for every item in q with a positive quantity,
// one item at a time in ascending id order. Each item is read and locked
// through store before it is written, and every write is recorded in the
// movement ledger.
//
// The first failure stops the batch: *ItemNotFoundError when the item is
// gone, *InsufficientStockError when a decrease would go below zero. Nothing
// is undone here; the caller's transaction must be rolled back so the batch
// is all-or-nothing.
func ApplyStockChange(
	ctx context.Context,
	store repositories.StockStore,
	orderID uuid.UUID,
	q models.QuantityMap,
	dir Direction,
) ([]models.StockAdjustment, error) {
	if dir != Decrease && dir != Increase {
		return nil, fmt.Errorf("apply stock change: unknown %s", dir)
	}

	var applied []models.StockAdjustment
	for _, itemID := range q.ItemIDs() {
		qty := q[itemID]
		if !qty.IsPositive() {
			continue
		}

		level, err := store.GetForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, domain.ErrItemNotFound) {
				return nil, &domain.ItemNotFoundError{ItemID: itemID}
			}
			return nil, fmt.Errorf("load stock for item %s: %w", itemID, err)
		}

		adj := models.StockAdjustment{
			ItemID:  itemID,
			OrderID: orderID,
			Before:  level.Stock,
		}
		if dir == Decrease {
			if level.Stock.LessThan(qty) {
				return nil, &domain.InsufficientStockError{
					ItemID:    itemID,
					ItemName:  level.Name,
					Available: level.Stock,
					Requested: qty,
				}
			}
			adj.Kind = models.MovementOrderHold
			adj.Change = qty.Neg()
		} else {
			adj.Kind = models.MovementOrderRelease
			adj.Change = qty
		}
		adj.After = level.Stock.Add(adj.Change)

		if err := store.SetStock(ctx, itemID, adj.After); err != nil {
			return nil, fmt.Errorf("write stock for item %s: %w", itemID, err)
		}
		if err := store.RecordMovement(ctx, adj); err != nil {
			return nil, fmt.Errorf("record movement for item %s: %w", itemID, err)
		}
		applied = append(applied, adj)
	}
	return applied, nil
}

// ApplyPlan runs a StockPlan: releases first, then holds.
func ApplyPlan(ctx context.Context, store repositories.StockStore, orderID uuid.UUID, plan StockPlan) ([]models.StockAdjustment, error) {
	released, err := ApplyStockChange(ctx, store, orderID, plan.Releases, Increase)
	if err != nil {
		return nil, err
	}
	held, err := ApplyStockChange(ctx, store, orderID, plan.Holds, Decrease)
	if err != nil {
		return nil, err
	}
	return append(released, held...), nil
}
