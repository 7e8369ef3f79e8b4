package services

import (
	"fmt"

	"github.com/ghuser/inventra/services/salesorder/domain"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
)

// StockPlan is the stock work one order operation needs. Releases are
// applied before holds so quantity moving between items of the same order
// never trips a spurious shortage.
type StockPlan struct {
	Releases models.QuantityMap // stock increases
	Holds    models.QuantityMap // stock decreases
}

// Empty reports whether the plan moves no stock.
func (p StockPlan) Empty() bool {
	return len(p.Releases) == 0 && len(p.Holds) == 0
}

// committed returns the quantities an order in status s has taken out of
// stock. Confirmed orders hold their lines; delivered orders keep them
// consumed since delivery never returns stock.
func committed(s models.Status, lines []models.Line) models.QuantityMap {
	if s == models.StatusConfirmed || s == models.StatusDelivered {
		return BuildQuantityMap(lines)
	}
	return models.QuantityMap{}
}

func planBetween(before, after models.QuantityMap) StockPlan {
	holds, releases := SplitDelta(DiffQuantityMaps(before, after))
	return StockPlan{Releases: releases, Holds: holds}
}

// CheckStatusTransition enforces the commercial state machine:
//   - any status may be re-requested as a no-op
//   - delivered is terminal
//   - delivered is only reachable from confirmed
//   - draft, confirmed and cancelled reach each other freely
func CheckStatusTransition(from, to models.Status) error {
	if !to.Valid() {
		_, err := models.ParseStatus(to.String())
		return err
	}
	if from == to {
		return nil
	}
	if from == models.StatusDelivered || (to == models.StatusDelivered && from != models.StatusConfirmed) {
		return &domain.TransitionError{Axis: "status", From: from.String(), To: to.String()}
	}
	return nil
}

// PlanCreate returns the stock work for a new order: a full hold when it is
// created confirmed, nothing when it is created as a draft. Orders cannot
// start out delivered or cancelled.
func PlanCreate(status models.Status, lines []models.Line) (StockPlan, error) {
	if _, err := models.ParseStatus(status.String()); err != nil {
		return StockPlan{}, err
	}
	if status != models.StatusDraft && status != models.StatusConfirmed {
		return StockPlan{}, fmt.Errorf("%w: orders are created as draft or confirmed, not %s",
			domain.ErrInvalidTransition, status)
	}
	return planBetween(models.QuantityMap{}, committed(status, lines)), nil
}

// PlanStatusChange returns the stock work for moving an order with the given
// lines from one commercial status to another:
//
//	draft/cancelled -> confirmed  hold all lines
//	confirmed -> draft/cancelled  release all lines
//	confirmed -> delivered        nothing
//	same status                   nothing
func PlanStatusChange(from, to models.Status, lines []models.Line) (StockPlan, error) {
	return PlanUpdate(from, to, lines, lines)
}

// PlanUpdate returns the stock work for replacing an order's lines and
// possibly its status in one step. The held quantities before and after are
// diffed, so an order that stays confirmed only moves the changed quantities,
// one that becomes confirmed holds everything, and one that leaves confirmed
// releases everything.
//
// A delivered order's quantities are final; changing them fails with
// ErrInvalidTransition.
func PlanUpdate(from, to models.Status, oldLines, newLines []models.Line) (StockPlan, error) {
	if err := CheckStatusTransition(from, to); err != nil {
		return StockPlan{}, err
	}
	before, after := committed(from, oldLines), committed(to, newLines)
	if from == models.StatusDelivered && !before.Equal(after) {
		return StockPlan{}, &domain.TransitionError{Axis: "lines", From: "delivered", To: "modified"}
	}
	return planBetween(before, after), nil
}

// PlanDelete releases what a confirmed order holds. Deleting a delivered
// order does not bring shipped goods back into stock.
func PlanDelete(status models.Status, lines []models.Line) StockPlan {
	if status != models.StatusConfirmed {
		return StockPlan{Releases: models.QuantityMap{}, Holds: models.QuantityMap{}}
	}
	return planBetween(BuildQuantityMap(lines), models.QuantityMap{})
}

// CheckFulfillmentTransition enforces the fulfillment axis. Moves go forward
// along new, picking, packing, ready, shipped, delivered (skipping is
// allowed); cancelled is reachable from any non-terminal state; re-requesting
// the current state is a no-op. Orders cancelled commercially can only be
// marked fulfillment-cancelled.
func CheckFulfillmentTransition(commercial models.Status, from, to models.FulfillmentStatus) error {
	if !to.Valid() {
		_, err := models.ParseFulfillmentStatus(to.String())
		return err
	}
	if from == to {
		return nil
	}
	reject := &domain.TransitionError{Axis: "fulfillment_status", From: from.String(), To: to.String()}
	if from.Terminal() {
		return reject
	}
	if commercial == models.StatusCancelled && to != models.FulfillmentCancelled {
		return reject
	}
	if to == models.FulfillmentCancelled {
		return nil
	}
	if to.Rank() <= from.Rank() {
		return reject
	}
	return nil
}
