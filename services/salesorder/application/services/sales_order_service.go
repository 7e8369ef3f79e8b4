package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/inventra/pkg/logger"
	"github.com/ghuser/inventra/pkg/telemetry"
	"github.com/ghuser/inventra/services/salesorder/domain"
	"github.com/ghuser/inventra/services/salesorder/domain/events"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
	"github.com/ghuser/inventra/services/salesorder/domain/repositories"
	domainsvcs "github.com/ghuser/inventra/services/salesorder/domain/services"
)

const instrumentationScope = "github.com/ghuser/inventra/services/salesorder"

// DefaultOrderNumberPrefix is used when no prefix is configured.
const DefaultOrderNumberPrefix = "SO-"

// IdempotencyStore remembers which order a client Idempotency-Key created.
// Satisfied by cache.IdempotencyStore.
type IdempotencyStore interface {
	Lookup(ctx context.Context, orgID uuid.UUID, key string) (uuid.UUID, bool, error)
	Remember(ctx context.Context, orgID uuid.UUID, key string, orderID uuid.UUID) (uuid.UUID, error)
}

// SalesOrderService is the lifecycle orchestrator. Every mutating operation
// runs in one unit of work: the order write, its stock reconciliation, the
// ledger entries and the outbox events commit or roll back together.
type SalesOrderService struct {
	tx          repositories.Transactor
	reader      repositories.OrderReader
	idempotency IdempotencyStore
	log         logger.Logger
	now         func() time.Time
	prefix      string

	tracer      trace.Tracer
	operations  metric.Int64Counter
	adjustments metric.Int64Counter
}

// Option customizes a SalesOrderService.
type Option func(*SalesOrderService)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *SalesOrderService) { s.now = now }
}

// WithOrderNumberPrefix sets the prefix of generated order numbers.
func WithOrderNumberPrefix(prefix string) Option {
	return func(s *SalesOrderService) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithIdempotencyStore enables Idempotency-Key handling on create.
func WithIdempotencyStore(store IdempotencyStore) Option {
	return func(s *SalesOrderService) { s.idempotency = store }
}

// NewSalesOrderService wires the orchestrator.
func NewSalesOrderService(tx repositories.Transactor, reader repositories.OrderReader, log logger.Logger, opts ...Option) *SalesOrderService {
	s := &SalesOrderService{
		tx:     tx,
		reader: reader,
		log:    log.With("component", "salesorder"),
		now:    func() time.Time { return time.Now().UTC() },
		prefix: DefaultOrderNumberPrefix,
		tracer: telemetry.Tracer(instrumentationScope),
		operations: telemetry.Int64Counter(instrumentationScope,
			"salesorder.operations", "Sales order lifecycle operations by outcome"),
		adjustments: telemetry.Int64Counter(instrumentationScope,
			"salesorder.stock_adjustments", "Item stock rows changed by sales orders"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new order and, when it is created confirmed, holds stock
// for its lines. A missing order number is allocated from the org sequence.
func (s *SalesOrderService) Create(ctx context.Context, orgID uuid.UUID, in models.OrderInput) (order *models.SalesOrder, err error) {
	ctx, done := s.begin(ctx, "create", orgID, uuid.Nil)
	defer func() { done(err) }()

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if _, err := models.ParseStatus(status.String()); err != nil {
		return nil, err
	}
	// Rejects unreachable initial states before opening a transaction.
	if _, err := domainsvcs.PlanCreate(status, in.Lines); err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, orgID, func(ctx context.Context, uow repositories.UnitOfWork) error {
		now := s.now()
		o := models.NewSalesOrder(orgID, now)
		o.Apply(in)
		if o.OrderNumber == "" {
			n, err := uow.Orders().NextOrderNumber(ctx)
			if err != nil {
				return fmt.Errorf("allocate order number: %w", err)
			}
			o.OrderNumber = FormatOrderNumber(s.prefix, n)
		}
		o.SetStatus(status, now)

		if err := uow.Orders().Insert(ctx, o); err != nil {
			return fmt.Errorf("insert sales order: %w", err)
		}

		plan, err := domainsvcs.PlanCreate(status, o.Lines)
		if err != nil {
			return err
		}
		adjs, err := domainsvcs.ApplyPlan(ctx, uow.Stock(), o.ID, plan)
		if err != nil {
			return err
		}

		if err := s.publish(ctx, uow, events.SalesOrderCreatedEvent{
			Meta:        events.NewMeta(orgID, now),
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			Status:      o.Status.String(),
		}); err != nil {
			return err
		}
		if err := s.publishAdjustments(ctx, uow, orgID, o.ID, now, adjs); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "sales order created",
		"org_id", orgID, "order_id", order.ID, "order_number", order.OrderNumber, "status", order.Status)
	return order, nil
}

// CreateIdempotent is Create guarded by a client-supplied key. A replayed key
// returns the order created the first time and replayed=true. Idempotency
// storage failures degrade to a plain Create.
func (s *SalesOrderService) CreateIdempotent(ctx context.Context, orgID uuid.UUID, key string, in models.OrderInput) (order *models.SalesOrder, replayed bool, err error) {
	if key == "" || s.idempotency == nil {
		order, err = s.Create(ctx, orgID, in)
		return order, false, err
	}

	if existingID, ok, lerr := s.idempotency.Lookup(ctx, orgID, key); lerr != nil {
		s.log.WarnContext(ctx, "idempotency lookup failed", "key", key, "error", lerr)
	} else if ok {
		existing, gerr := s.reader.GetByID(ctx, orgID, existingID)
		if gerr == nil {
			return existing, true, nil
		}
		if !errors.Is(gerr, domain.ErrOrderNotFound) {
			return nil, false, fmt.Errorf("load replayed order: %w", gerr)
		}
		// The original order was deleted since; create a fresh one.
	}

	order, err = s.Create(ctx, orgID, in)
	if err != nil {
		return nil, false, err
	}
	stored, rerr := s.idempotency.Remember(ctx, orgID, key, order.ID)
	if rerr != nil {
		s.log.WarnContext(ctx, "idempotency remember failed", "key", key, "order_id", order.ID, "error", rerr)
		return order, false, nil
	}
	if stored == order.ID {
		return order, false, nil
	}
	return s.yieldToWinner(ctx, orgID, key, order, stored)
}

// yieldToWinner resolves a concurrent create that lost the race for key:
// the losing order is deleted, releasing anything it held, and the winner is
// returned as a replay. If the winner cannot be loaded the loser is kept.
func (s *SalesOrderService) yieldToWinner(ctx context.Context, orgID uuid.UUID, key string, loser *models.SalesOrder, winnerID uuid.UUID) (*models.SalesOrder, bool, error) {
	winner, err := s.reader.GetByID(ctx, orgID, winnerID)
	if err != nil {
		s.log.WarnContext(ctx, "idempotency winner unavailable, keeping order",
			"key", key, "order_id", loser.ID, "winner_order_id", winnerID, "error", err)
		return loser, false, nil
	}
	if err := s.Delete(ctx, orgID, loser.ID); err != nil {
		return nil, false, fmt.Errorf("discard duplicate order %s: %w", loser.ID, err)
	}
	s.log.InfoContext(ctx, "concurrent create with same idempotency key, duplicate discarded",
		"key", key, "order_id", loser.ID, "winner_order_id", winner.ID)
	return winner, true, nil
}

// Update replaces the order's editable fields and lines, optionally moving
// its status, and reconciles stock by the difference in held quantities.
func (s *SalesOrderService) Update(ctx context.Context, orgID, id uuid.UUID, in models.OrderInput) (order *models.SalesOrder, err error) {
	ctx, done := s.begin(ctx, "update", orgID, id)
	defer func() { done(err) }()

	if in.Status != "" {
		if _, err := models.ParseStatus(in.Status.String()); err != nil {
			return nil, err
		}
	}

	var from models.Status
	err = s.tx.WithinTx(ctx, orgID, func(ctx context.Context, uow repositories.UnitOfWork) error {
		current, err := uow.Orders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = current.Status
		to := in.Status
		if to == "" {
			to = current.Status
		}

		plan, err := domainsvcs.PlanUpdate(current.Status, to, current.Lines, in.Lines)
		if err != nil {
			return err
		}

		now := s.now()
		o := current.Clone()
		o.Apply(in)
		o.SetStatus(to, now)
		o.UpdatedAt = now

		if err := uow.Orders().Update(ctx, o); err != nil {
			return fmt.Errorf("update sales order: %w", err)
		}
		adjs, err := domainsvcs.ApplyPlan(ctx, uow.Stock(), o.ID, plan)
		if err != nil {
			return err
		}

		if err := s.publish(ctx, uow, events.SalesOrderUpdatedEvent{
			Meta:        events.NewMeta(orgID, now),
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			Status:      o.Status.String(),
		}); err != nil {
			return err
		}
		if from != to {
			if err := s.publishStatusChange(ctx, uow, o, "status", from.String(), to.String(), now); err != nil {
				return err
			}
		}
		if err := s.publishAdjustments(ctx, uow, orgID, o.ID, now, adjs); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "sales order updated",
		"org_id", orgID, "order_id", id, "from_status", from, "status", order.Status)
	return order, nil
}

// Delete releases any stock a confirmed order holds and removes it.
func (s *SalesOrderService) Delete(ctx context.Context, orgID, id uuid.UUID) (err error) {
	ctx, done := s.begin(ctx, "delete", orgID, id)
	defer func() { done(err) }()

	var number string
	err = s.tx.WithinTx(ctx, orgID, func(ctx context.Context, uow repositories.UnitOfWork) error {
		current, err := uow.Orders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		number = current.OrderNumber

		adjs, err := domainsvcs.ApplyPlan(ctx, uow.Stock(), id, domainsvcs.PlanDelete(current.Status, current.Lines))
		if err != nil {
			return err
		}
		if err := uow.Orders().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete sales order: %w", err)
		}

		now := s.now()
		if err := s.publish(ctx, uow, events.SalesOrderDeletedEvent{
			Meta:        events.NewMeta(orgID, now),
			OrderID:     id,
			OrderNumber: current.OrderNumber,
		}); err != nil {
			return err
		}
		return s.publishAdjustments(ctx, uow, orgID, id, now, adjs)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "sales order deleted", "org_id", orgID, "order_id", id, "order_number", number)
	return nil
}

// SetStatus moves the commercial status and applies the stock action the
// transition requires. Requesting the current status changes nothing.
func (s *SalesOrderService) SetStatus(ctx context.Context, orgID, id uuid.UUID, next string) (order *models.SalesOrder, err error) {
	ctx, done := s.begin(ctx, "set_status", orgID, id)
	defer func() { done(err) }()

	to, err := models.ParseStatus(next)
	if err != nil {
		return nil, err
	}

	var from models.Status
	err = s.tx.WithinTx(ctx, orgID, func(ctx context.Context, uow repositories.UnitOfWork) error {
		current, err := uow.Orders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = current.Status
		if from == to {
			order = current
			return nil
		}

		plan, err := domainsvcs.PlanStatusChange(from, to, current.Lines)
		if err != nil {
			return err
		}
		adjs, err := domainsvcs.ApplyPlan(ctx, uow.Stock(), id, plan)
		if err != nil {
			return err
		}

		now := s.now()
		o := current.Clone()
		o.SetStatus(to, now)
		o.UpdatedAt = now
		if err := uow.Orders().Update(ctx, o); err != nil {
			return fmt.Errorf("update sales order status: %w", err)
		}

		if err := s.publishStatusChange(ctx, uow, o, "status", from.String(), to.String(), now); err != nil {
			return err
		}
		if err := s.publishAdjustments(ctx, uow, orgID, id, now, adjs); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != to {
		s.log.InfoContext(ctx, "sales order status changed",
			"org_id", orgID, "order_id", id, "from", from, "to", to)
	}
	return order, nil
}

// SetFulfillmentStatus moves the fulfillment axis. It never touches stock.
func (s *SalesOrderService) SetFulfillmentStatus(ctx context.Context, orgID, id uuid.UUID, next string) (order *models.SalesOrder, err error) {
	ctx, done := s.begin(ctx, "set_fulfillment_status", orgID, id)
	defer func() { done(err) }()

	to, err := models.ParseFulfillmentStatus(next)
	if err != nil {
		return nil, err
	}

	var from models.FulfillmentStatus
	err = s.tx.WithinTx(ctx, orgID, func(ctx context.Context, uow repositories.UnitOfWork) error {
		current, err := uow.Orders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = current.FulfillmentStatus
		if from == to {
			order = current
			return nil
		}
		if err := domainsvcs.CheckFulfillmentTransition(current.Status, from, to); err != nil {
			return err
		}

		now := s.now()
		o := current.Clone()
		o.SetFulfillmentStatus(to, now)
		o.UpdatedAt = now
		if err := uow.Orders().Update(ctx, o); err != nil {
			return fmt.Errorf("update fulfillment status: %w", err)
		}
		if err := s.publishStatusChange(ctx, uow, o, "fulfillment_status", from.String(), to.String(), now); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != to {
		s.log.InfoContext(ctx, "sales order fulfillment status changed",
			"org_id", orgID, "order_id", id, "from", from, "to", to)
	}
	return order, nil
}

// Get returns one order.
func (s *SalesOrderService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.SalesOrder, error) {
	o, err := s.reader.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	return o, nil
}

// List returns a page of orders, newest first, plus the total count.
func (s *SalesOrderService) List(ctx context.Context, orgID uuid.UUID, filter repositories.ListFilter) ([]*models.SalesOrder, int, error) {
	orders, total, err := s.reader.List(ctx, orgID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales orders: %w", err)
	}
	return orders, total, nil
}

// FormatOrderNumber renders a sequence value as prefix plus at least four digits.
func FormatOrderNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}

func (s *SalesOrderService) publish(ctx context.Context, uow repositories.UnitOfWork, evt events.Event) error {
	if err := uow.Events().Publish(ctx, evt); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Topic(), err)
	}
	return nil
}

func (s *SalesOrderService) publishStatusChange(ctx context.Context, uow repositories.UnitOfWork, o *models.SalesOrder, axis, from, to string, now time.Time) error {
	return s.publish(ctx, uow, events.SalesOrderStatusChangedEvent{
		Meta:    events.NewMeta(o.OrgID, now),
		OrderID: o.ID,
		Axis:    axis,
		From:    from,
		To:      to,
	})
}

func (s *SalesOrderService) publishAdjustments(ctx context.Context, uow repositories.UnitOfWork, orgID, orderID uuid.UUID, now time.Time, adjs []models.StockAdjustment) error {
	if len(adjs) == 0 {
		return nil
	}
	diffs := make([]events.ItemStockDiff, len(adjs))
	for i, a := range adjs {
		diffs[i] = events.ItemStockDiff{ItemID: a.ItemID, Change: a.Change, StockAfter: a.After}
		s.adjustments.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(a.Kind))))
	}
	return s.publish(ctx, uow, events.StockAdjustedEvent{
		Meta:        events.NewMeta(orgID, now),
		OrderID:     orderID,
		Adjustments: diffs,
	})
}

// begin starts a span for op and returns a finisher that records the
// outcome on the span, the operations counter and the log.
func (s *SalesOrderService) begin(ctx context.Context, op string, orgID, orderID uuid.UUID) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "salesorder."+op, trace.WithAttributes(
		attribute.String("org_id", orgID.String()),
		attribute.String("order_id", orderID.String()),
	))
	return ctx, func(err error) {
		outcome := outcomeOf(err)
		s.operations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("outcome", outcome),
		))
		if err != nil {
			span.RecordError(err)
			if outcome == "error" {
				span.SetStatus(codes.Error, err.Error())
			}
			s.logFailure(ctx, op, orgID, orderID, err)
		}
		span.End()
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrItemNotFound):
		return "stock_rejected"
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidFulfillmentStatus),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrDuplicateKey),
		errors.Is(err, domain.ErrInvalidOrderInput):
		return "rejected"
	default:
		return "error"
	}
}

func (s *SalesOrderService) logFailure(ctx context.Context, op string, orgID, orderID uuid.UUID, err error) {
	var ise *domain.InsufficientStockError
	var nf *domain.ItemNotFoundError
	switch {
	case errors.As(err, &ise):
		s.log.WarnContext(ctx, "sales order rejected: insufficient stock",
			"operation", op, "org_id", orgID, "order_id", orderID,
			"item_id", ise.ItemID, "available", ise.Available.String(), "requested", ise.Requested.String())
	case errors.As(err, &nf):
		s.log.WarnContext(ctx, "sales order rejected: item not found",
			"operation", op, "org_id", orgID, "order_id", orderID, "item_id", nf.ItemID)
	case outcomeOf(err) == "rejected":
		s.log.InfoContext(ctx, "sales order request rejected",
			"operation", op, "org_id", orgID, "order_id", orderID, "error", err)
	default:
		s.log.ErrorContext(ctx, "sales order operation failed",
			"operation", op, "org_id", orgID, "order_id", orderID, "error", err)
	}
}
