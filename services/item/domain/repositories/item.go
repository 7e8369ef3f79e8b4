package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/inventra/services/item/domain/models"
)

// QueryOpts contains search and pagination parameters for list queries.
type QueryOpts struct {
	Query  string // case-insensitive match on name or sku; empty matches all
	Limit  int    // Maximum number of records to return
	Offset int    // Number of records to skip
}

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
// There is no method that writes stock: only sales order reconciliation
// moves stock, through its own unit of work.
type ItemRepository interface {
	// Save persists a new Item together with its opening stock movement.
	Save(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Item, error)

	// Search returns a page of matching items ordered by name plus the total
	// count ignoring pagination.
	Search(ctx context.Context, orgID uuid.UUID, opts QueryOpts) ([]*models.Item, int, error)

	// Movements returns an item's stock ledger, newest first.
	Movements(ctx context.Context, orgID, itemID uuid.UUID, opts QueryOpts) ([]*models.StockMovement, int, error)
}
