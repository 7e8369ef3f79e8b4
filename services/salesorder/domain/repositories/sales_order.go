package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/inventra/services/salesorder/domain/events"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
)

// Transactor opens a unit of work scoped to one organization. fn's reads and
// writes either all commit or all roll back; a non-nil error from fn aborts.
// fn may run more than once when the store retries a lost race, so it must
// not keep state across invocations.
type Transactor interface {
	WithinTx(ctx context.Context, orgID uuid.UUID, fn func(ctx context.Context, uow UnitOfWork) error) error
}

// UnitOfWork exposes the stores that participate in one transaction.
type UnitOfWork interface {
	Orders() OrderStore
	Stock() StockStore
	Events() EventPublisher
}

// OrderStore reads and writes sales orders inside a transaction.
type OrderStore interface {
	// GetForUpdate loads the order and locks it until the transaction ends.
	// Returns ErrOrderNotFound when the id is unknown in this org.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.SalesOrder, error)

	// Insert returns a *DuplicateKeyError when the order number is taken.
	Insert(ctx context.Context, order *models.SalesOrder) error

	// Update returns a *DuplicateKeyError when the order number is taken.
	Update(ctx context.Context, order *models.SalesOrder) error
	Delete(ctx context.Context, id uuid.UUID) error

	// NextOrderNumber allocates the org's next sequence value (1, 2, ...).
	NextOrderNumber(ctx context.Context) (int64, error)
}

// StockStore is the item stock side of a transaction. It is only ever driven
// by the stock applier.
type StockStore interface {
	// GetForUpdate reads an item's stock and locks the row.
	// Returns ErrItemNotFound when the item does not exist in this org.
	GetForUpdate(ctx context.Context, itemID uuid.UUID) (models.StockLevel, error)
	SetStock(ctx context.Context, itemID uuid.UUID, stock decimal.Decimal) error
	RecordMovement(ctx context.Context, adj models.StockAdjustment) error
}

// EventPublisher queues events that become visible only if the transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, evt events.Event) error
}

// ListFilter narrows and paginates order listings.
type ListFilter struct {
	Status *models.Status
	Limit  int
	Offset int
}

// OrderReader serves non-transactional reads.
type OrderReader interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.SalesOrder, error)

	// List returns the page of orders (newest first) and the total count
	// ignoring pagination.
	List(ctx context.Context, orgID uuid.UUID, filter ListFilter) ([]*models.SalesOrder, int, error)
}
