package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/inventra/pkg/database"
	"github.com/ghuser/inventra/services/salesorder/domain"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
	"github.com/ghuser/inventra/services/salesorder/domain/repositories"
	"github.com/ghuser/inventra/services/salesorder/infrastructure/persistence/postgres/db"
)

// OrderReader serves committed reads outside any unit of work.
type OrderReader struct {
	db *database.Database
}

var _ repositories.OrderReader = (*OrderReader)(nil)

// NewOrderReader returns an OrderReader over the shared pool.
func NewOrderReader(database *database.Database) *OrderReader {
	return &OrderReader{db: database}
}

// GetByID returns ErrOrderNotFound when the id is unknown in the org.
func (r *OrderReader) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.SalesOrder, error) {
	row, err := db.New(r.db.DB()).GetOrderByID(ctx, db.GetOrderByIDParams{ID: id, OrgID: orgID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("query sales order: %w", err)
	}
	return rowToOrder(row)
}

// List returns a page of orders, newest first, and the total matching count.
func (r *OrderReader) List(ctx context.Context, orgID uuid.UUID, f repositories.ListFilter) ([]*models.SalesOrder, int, error) {
	q := db.New(r.db.DB())

	var status sql.NullString
	if f.Status != nil {
		status = sql.NullString{String: f.Status.String(), Valid: true}
	}

	rows, err := q.ListOrders(ctx, db.ListOrdersParams{
		OrgID:  orgID,
		Status: status,
		Lim:    int32(f.Limit),
		Off:    int32(f.Offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query sales orders: %w", err)
	}
	total, err := q.CountOrders(ctx, db.CountOrdersParams{OrgID: orgID, Status: status})
	if err != nil {
		return nil, 0, fmt.Errorf("count sales orders: %w", err)
	}

	orders := make([]*models.SalesOrder, 0, len(rows))
	for _, row := range rows {
		o, err := rowToOrder(row)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, int(total), nil
}
