// Package postgres implements the sales order unit of work on PostgreSQL.
// One unit of work is one READ COMMITTED transaction: order rows and item
// stock rows are locked with SELECT ... FOR UPDATE, stock movements are
// inserted in the same transaction, and events go to the Watermill outbox
// through the same *sql.Tx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/inventra/pkg/database"
	pkgevents "github.com/ghuser/inventra/pkg/events"
	itemdb "github.com/ghuser/inventra/services/item/infrastructure/persistence/postgres/db"
	"github.com/ghuser/inventra/services/salesorder/domain"
	"github.com/ghuser/inventra/services/salesorder/domain/events"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
	"github.com/ghuser/inventra/services/salesorder/domain/repositories"
	"github.com/ghuser/inventra/services/salesorder/infrastructure/persistence/postgres/db"
)

const constraintOrderNumber = "orders_org_order_number_key"

// Transactor implements repositories.Transactor.
type Transactor struct {
	db  *database.Database
	bus *pkgevents.EventBus
}

var _ repositories.Transactor = (*Transactor)(nil)

// NewTransactor returns a Transactor. bus may be nil, in which case events
// are dropped; used by tooling that runs without the outbox.
func NewTransactor(database *database.Database, bus *pkgevents.EventBus) *Transactor {
	return &Transactor{db: database, bus: bus}
}

// WithinTx runs fn inside one database transaction scoped to orgID.
// Serialization failures and deadlocks re-run fn from scratch.
func (t *Transactor) WithinTx(ctx context.Context, orgID uuid.UUID, fn func(ctx context.Context, uow repositories.UnitOfWork) error) error {
	return t.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(ctx, &unitOfWork{
			tx:     tx,
			orgID:  orgID,
			orders: db.New(tx),
			items:  itemdb.New(tx),
			bus:    t.bus,
		})
	})
}

type unitOfWork struct {
	tx     *sql.Tx
	orgID  uuid.UUID
	orders *db.Queries
	items  *itemdb.Queries
	bus    *pkgevents.EventBus
}

func (u *unitOfWork) Orders() repositories.OrderStore     { return orderStore{u} }
func (u *unitOfWork) Stock() repositories.StockStore      { return stockStore{u} }
func (u *unitOfWork) Events() repositories.EventPublisher { return outbox{u} }

type orderStore struct{ u *unitOfWork }

func (s orderStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.SalesOrder, error) {
	row, err := s.u.orders.GetOrderForUpdate(ctx, db.GetOrderForUpdateParams{ID: id, OrgID: s.u.orgID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("lock sales order: %w", err)
	}
	return rowToOrder(row)
}

func (s orderStore) Insert(ctx context.Context, o *models.SalesOrder) error {
	p, err := insertParams(o)
	if err != nil {
		return err
	}
	if err := s.u.orders.InsertOrder(ctx, p); err != nil {
		return duplicateOrErr(err, o)
	}
	return nil
}

func (s orderStore) Update(ctx context.Context, o *models.SalesOrder) error {
	p, err := updateParams(o)
	if err != nil {
		return err
	}
	if err := s.u.orders.UpdateOrder(ctx, p); err != nil {
		return duplicateOrErr(err, o)
	}
	return nil
}

func (s orderStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.u.orders.DeleteOrder(ctx, db.DeleteOrderParams{ID: id, OrgID: s.u.orgID})
}

func (s orderStore) NextOrderNumber(ctx context.Context) (int64, error) {
	return s.u.orders.NextOrderSequence(ctx, s.u.orgID)
}

func duplicateOrErr(err error, o *models.SalesOrder) error {
	constraint, ok := database.IsUniqueViolation(err)
	if !ok {
		return err
	}
	if constraint == constraintOrderNumber {
		return &domain.DuplicateKeyError{Field: "order_number", Value: o.OrderNumber}
	}
	return &domain.DuplicateKeyError{Field: "id", Value: o.ID.String()}
}

type stockStore struct{ u *unitOfWork }

func (s stockStore) GetForUpdate(ctx context.Context, itemID uuid.UUID) (models.StockLevel, error) {
	row, err := s.u.items.LockItemStock(ctx, itemdb.LockItemStockParams{ID: itemID, OrgID: s.u.orgID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StockLevel{}, domain.ErrItemNotFound
		}
		return models.StockLevel{}, fmt.Errorf("lock item stock: %w", err)
	}
	return models.StockLevel{ItemID: row.ID, Name: row.Name, Stock: row.Stock}, nil
}

func (s stockStore) SetStock(ctx context.Context, itemID uuid.UUID, stock decimal.Decimal) error {
	return s.u.items.UpdateItemStock(ctx, itemdb.UpdateItemStockParams{
		ID:        itemID,
		OrgID:     s.u.orgID,
		Stock:     stock,
		UpdatedAt: time.Now().UTC(),
	})
}

func (s stockStore) RecordMovement(ctx context.Context, adj models.StockAdjustment) error {
	return s.u.items.InsertStockMovement(ctx, itemdb.InsertStockMovementParams{
		ID:          uuid.New(),
		OrgID:       s.u.orgID,
		ItemID:      adj.ItemID,
		OrderID:     uuid.NullUUID{UUID: adj.OrderID, Valid: adj.OrderID != uuid.Nil},
		Kind:        string(adj.Kind),
		Quantity:    adj.Change,
		StockBefore: adj.Before,
		StockAfter:  adj.After,
		CreatedAt:   time.Now().UTC(),
	})
}

type outbox struct{ u *unitOfWork }

func (o outbox) Publish(ctx context.Context, evt events.Event) error {
	if o.u.bus == nil {
		return nil
	}
	meta := evt.Metadata()
	msg, err := pkgevents.NewJSONMessage(meta.EventID, meta.Version, meta.OrgID, evt)
	if err != nil {
		return err
	}
	return o.u.bus.PublishInTx(ctx, o.u.tx, evt.Topic(), msg)
}
