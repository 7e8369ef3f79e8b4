package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/inventra/pkg/database"
	"github.com/ghuser/inventra/pkg/events"
	itemdomain "github.com/ghuser/inventra/services/item/domain"
	domainevents "github.com/ghuser/inventra/services/item/domain/events"
	"github.com/ghuser/inventra/services/item/domain/models"
	"github.com/ghuser/inventra/services/item/domain/repositories"
	"github.com/ghuser/inventra/services/item/infrastructure/persistence/postgres/db"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository returns an ItemRepository backed by the given connection pool
// and event bus. The bus is used to publish ItemCreatedEvents after a successful save.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// Save persists a new Item, its opening stock movement and an ItemCreatedEvent
// within the same transaction. Returns ErrDuplicateSKU on the org/sku constraint.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertItem(ctx, db.InsertItemParams{
			ID:        item.ID,
			OrgID:     item.OrgID,
			Sku:       item.SKU.String(),
			Name:      item.Name.String(),
			Rate:      item.Rate,
			Stock:     item.Stock,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}); err != nil {
			if _, ok := database.IsUniqueViolation(err); ok {
				return itemdomain.ErrDuplicateSKU
			}
			return fmt.Errorf("insert item: %w", err)
		}

		if item.Stock.IsPositive() {
			if err := q.InsertStockMovement(ctx, db.InsertStockMovementParams{
				ID:          uuid.New(),
				OrgID:       item.OrgID,
				ItemID:      item.ID,
				Kind:        string(models.MovementOpening),
				Quantity:    item.Stock,
				StockBefore: decimal.Zero,
				StockAfter:  item.Stock,
				CreatedAt:   item.CreatedAt,
			}); err != nil {
				return fmt.Errorf("insert opening movement: %w", err)
			}
		}

		if r.bus != nil {
			if err := r.publishCreated(ctx, tx, item); err != nil {
				return fmt.Errorf("publish item created: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves an Item by ID scoped to the given org. Returns ErrItemNotFound if not found.
func (r *ItemRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Item, error) {
	q := db.New(r.db.DB())
	row, err := q.GetItemByID(ctx, db.GetItemByIDParams{
		ID:    id,
		OrgID: orgID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return rowToItem(row), nil
}

// Search retrieves a page of items whose name or sku contains opts.Query.
func (r *ItemRepository) Search(ctx context.Context, orgID uuid.UUID, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	q := db.New(r.db.DB())

	rows, err := q.SearchItems(ctx, db.SearchItemsParams{
		OrgID: orgID,
		Query: opts.Query,
		Lim:   int32(opts.Limit),
		Off:   int32(opts.Offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}

	total, err := q.CountItems(ctx, db.CountItemsParams{OrgID: orgID, Query: opts.Query})
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, int(total), nil
}

// Movements retrieves a page of an item's stock ledger, newest first.
func (r *ItemRepository) Movements(ctx context.Context, orgID, itemID uuid.UUID, opts repositories.QueryOpts) ([]*models.StockMovement, int, error) {
	q := db.New(r.db.DB())

	rows, err := q.ListStockMovements(ctx, db.ListStockMovementsParams{
		OrgID:  orgID,
		ItemID: itemID,
		Limit:  int32(opts.Limit),
		Offset: int32(opts.Offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query stock movements: %w", err)
	}

	total, err := q.CountStockMovements(ctx, db.CountStockMovementsParams{OrgID: orgID, ItemID: itemID})
	if err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	out := make([]*models.StockMovement, len(rows))
	for i, row := range rows {
		m := &models.StockMovement{
			ID:          row.ID,
			OrgID:       row.OrgID,
			ItemID:      row.ItemID,
			Kind:        models.MovementKind(row.Kind),
			Quantity:    row.Quantity,
			StockBefore: row.StockBefore,
			StockAfter:  row.StockAfter,
			CreatedAt:   row.CreatedAt,
		}
		if row.OrderID.Valid {
			orderID := row.OrderID.UUID
			m.OrderID = &orderID
		}
		out[i] = m
	}
	return out, int(total), nil
}

func (r *ItemRepository) publishCreated(ctx context.Context, tx *sql.Tx, item *models.Item) error {
	event := domainevents.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     item.ID,
		OrgID:      item.OrgID,
		SKU:        item.SKU.String(),
		Name:       item.Name.String(),
		Rate:       item.Rate,
		Stock:      item.Stock,
		OccurredAt: item.CreatedAt,
	}
	msg, err := events.NewJSONMessage(event.EventID, event.Version, event.OrgID, event)
	if err != nil {
		return err
	}
	return r.bus.PublishInTx(ctx, tx, domainevents.TopicItemCreated, msg)
}

// rowToItem maps a db.ItemItem to a domain models.Item.
func rowToItem(row db.ItemItem) *models.Item {
	return &models.Item{
		ID:        row.ID,
		OrgID:     row.OrgID,
		SKU:       models.SKU(row.Sku),
		Name:      models.ItemName(row.Name),
		Rate:      row.Rate,
		Stock:     row.Stock,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
