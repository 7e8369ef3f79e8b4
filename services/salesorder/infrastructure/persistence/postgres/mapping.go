package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/inventra/services/salesorder/domain/models"
	"github.com/ghuser/inventra/services/salesorder/infrastructure/persistence/postgres/db"
)

// documents holds the jsonb columns of an order row.
type documents struct {
	lines, totals, attachments json.RawMessage
}

func encodeDocuments(o *models.SalesOrder) (documents, error) {
	var (
		d   documents
		err error
	)
	if d.lines, err = json.Marshal(o.Lines); err != nil {
		return d, fmt.Errorf("marshal lines: %w", err)
	}
	if d.totals, err = json.Marshal(o.Totals); err != nil {
		return d, fmt.Errorf("marshal totals: %w", err)
	}
	if d.attachments, err = json.Marshal(o.Attachments); err != nil {
		return d, fmt.Errorf("marshal attachments: %w", err)
	}
	return d, nil
}

func insertParams(o *models.SalesOrder) (db.InsertOrderParams, error) {
	d, err := encodeDocuments(o)
	if err != nil {
		return db.InsertOrderParams{}, err
	}
	return db.InsertOrderParams{
		ID:                   o.ID,
		OrgID:                o.OrgID,
		OrderNumber:          o.OrderNumber,
		Reference:            o.Reference,
		CustomerID:           nullUUID(o.CustomerID),
		SalespersonID:        nullUUID(o.SalespersonID),
		PriceListID:          nullUUID(o.PriceListID),
		OrderDate:            nullTime(o.OrderDate),
		ExpectedShipmentDate: nullTime(o.ExpectedShipmentDate),
		Status:               o.Status.String(),
		FulfillmentStatus:    o.FulfillmentStatus.String(),
		Lines:                d.lines,
		Totals:               d.totals,
		Attachments:          d.attachments,
		Notes:                o.Notes,
		Terms:                o.Terms,
		ConfirmedAt:          nullTime(o.ConfirmedAt),
		DeliveredAt:          nullTime(o.DeliveredAt),
		CancelledAt:          nullTime(o.CancelledAt),
		ShippedAt:            nullTime(o.ShippedAt),
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}, nil
}

func updateParams(o *models.SalesOrder) (db.UpdateOrderParams, error) {
	p, err := insertParams(o)
	if err != nil {
		return db.UpdateOrderParams{}, err
	}
	return db.UpdateOrderParams{
		ID:                   p.ID,
		OrgID:                p.OrgID,
		OrderNumber:          p.OrderNumber,
		Reference:            p.Reference,
		CustomerID:           p.CustomerID,
		SalespersonID:        p.SalespersonID,
		PriceListID:          p.PriceListID,
		OrderDate:            p.OrderDate,
		ExpectedShipmentDate: p.ExpectedShipmentDate,
		Status:               p.Status,
		FulfillmentStatus:    p.FulfillmentStatus,
		Lines:                p.Lines,
		Totals:               p.Totals,
		Attachments:          p.Attachments,
		Notes:                p.Notes,
		Terms:                p.Terms,
		ConfirmedAt:          p.ConfirmedAt,
		DeliveredAt:          p.DeliveredAt,
		CancelledAt:          p.CancelledAt,
		ShippedAt:            p.ShippedAt,
		UpdatedAt:            p.UpdatedAt,
	}, nil
}

// rowToOrder maps a db row to the domain aggregate.
func rowToOrder(row db.SalesorderOrder) (*models.SalesOrder, error) {
	o := &models.SalesOrder{
		ID:                   row.ID,
		OrgID:                row.OrgID,
		OrderNumber:          row.OrderNumber,
		Reference:            row.Reference,
		CustomerID:           ptrUUID(row.CustomerID),
		SalespersonID:        ptrUUID(row.SalespersonID),
		PriceListID:          ptrUUID(row.PriceListID),
		OrderDate:            ptrTime(row.OrderDate),
		ExpectedShipmentDate: ptrTime(row.ExpectedShipmentDate),
		Status:               models.Status(row.Status),
		FulfillmentStatus:    models.FulfillmentStatus(row.FulfillmentStatus),
		Notes:                row.Notes,
		Terms:                row.Terms,
		ConfirmedAt:          ptrTime(row.ConfirmedAt),
		DeliveredAt:          ptrTime(row.DeliveredAt),
		CancelledAt:          ptrTime(row.CancelledAt),
		ShippedAt:            ptrTime(row.ShippedAt),
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
	if err := unmarshalDoc(row.Lines, &o.Lines); err != nil {
		return nil, fmt.Errorf("order %s lines: %w", row.ID, err)
	}
	if err := unmarshalDoc(row.Totals, &o.Totals); err != nil {
		return nil, fmt.Errorf("order %s totals: %w", row.ID, err)
	}
	if err := unmarshalDoc(row.Attachments, &o.Attachments); err != nil {
		return nil, fmt.Errorf("order %s attachments: %w", row.ID, err)
	}
	if o.Lines == nil {
		o.Lines = []models.Line{}
	}
	if o.Attachments == nil {
		o.Attachments = []models.Attachment{}
	}
	return o, nil
}

func unmarshalDoc(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func ptrUUID(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func ptrTime(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}
