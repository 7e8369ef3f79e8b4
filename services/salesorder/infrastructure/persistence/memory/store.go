// Package memory is an in-process implementation of the sales order unit of
// work. Each transaction works on a private copy of the data and swaps it in
// on commit, so a failed operation leaves no trace. Transactions are fully
// serialized. Used by tests and local tooling.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/inventra/services/salesorder/domain"
	"github.com/ghuser/inventra/services/salesorder/domain/events"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
	"github.com/ghuser/inventra/services/salesorder/domain/repositories"
)

type item struct {
	orgID uuid.UUID
	name  string
	stock decimal.Decimal
}

type state struct {
	orders    map[uuid.UUID]*models.SalesOrder
	items     map[uuid.UUID]item
	sequences map[uuid.UUID]int64
}

func (s *state) clone() *state {
	c := &state{
		orders:    make(map[uuid.UUID]*models.SalesOrder, len(s.orders)),
		items:     make(map[uuid.UUID]item, len(s.items)),
		sequences: make(map[uuid.UUID]int64, len(s.sequences)),
	}
	for id, o := range s.orders {
		c.orders[id] = o.Clone()
	}
	for id, it := range s.items {
		c.items[id] = it
	}
	for org, n := range s.sequences {
		c.sequences[org] = n
	}
	return c
}

// Store holds orders, item stock, the movement ledger and published events.
type Store struct {
	mu        sync.Mutex
	data      *state
	movements []models.StockAdjustment
	published []events.Event
}

var (
	_ repositories.Transactor  = (*Store)(nil)
	_ repositories.OrderReader = (*Store)(nil)
)

// New returns an empty Store.
func New() *Store {
	return &Store{data: &state{
		orders:    map[uuid.UUID]*models.SalesOrder{},
		items:     map[uuid.UUID]item{},
		sequences: map[uuid.UUID]int64{},
	}}
}

// PutItem creates or replaces an item with the given stock.
func (s *Store) PutItem(orgID, itemID uuid.UUID, name string, stock decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.items[itemID] = item{orgID: orgID, name: name, stock: stock}
}

// RemoveItem deletes an item, as if it were removed by item management.
func (s *Store) RemoveItem(itemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.items, itemID)
}

// Stock returns the committed stock of an item.
func (s *Store) Stock(itemID uuid.UUID) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.data.items[itemID]
	return it.stock, ok
}

// Movements returns every committed stock adjustment in order.
func (s *Store) Movements() []models.StockAdjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.movements)
}

// Published returns every event from committed transactions in order.
func (s *Store) Published() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.published)
}

// WithinTx runs fn against a private copy of the store and commits it only
// when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, orgID uuid.UUID, fn func(ctx context.Context, uow repositories.UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	t := &tx{orgID: orgID, data: s.data.clone()}
	if err := fn(ctx, t); err != nil {
		return err
	}

	s.data = t.data
	s.movements = append(s.movements, t.movements...)
	s.published = append(s.published, t.events...)
	return nil
}

// GetByID returns a committed order.
func (s *Store) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.SalesOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.data.orders[id]
	if !ok || o.OrgID != orgID {
		return nil, domain.ErrOrderNotFound
	}
	return o.Clone(), nil
}

// List returns committed orders newest first.
func (s *Store) List(_ context.Context, orgID uuid.UUID, f repositories.ListFilter) ([]*models.SalesOrder, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.SalesOrder
	for _, o := range s.data.orders {
		if o.OrgID != orgID || (f.Status != nil && o.Status != *f.Status) {
			continue
		}
		matched = append(matched, o)
	}
	slices.SortFunc(matched, func(a, b *models.SalesOrder) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.OrderNumber, a.OrderNumber)
	})

	total := len(matched)
	start := min(f.Offset, total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	page := make([]*models.SalesOrder, 0, end-start)
	for _, o := range matched[start:end] {
		page = append(page, o.Clone())
	}
	return page, total, nil
}

// tx is one unit of work. It implements all three stores over its copy.
type tx struct {
	orgID     uuid.UUID
	data      *state
	movements []models.StockAdjustment
	events    []events.Event
}

func (t *tx) Orders() repositories.OrderStore     { return orderStore{t} }
func (t *tx) Stock() repositories.StockStore      { return stockStore{t} }
func (t *tx) Events() repositories.EventPublisher { return eventSink{t} }

type orderStore struct{ t *tx }

func (s orderStore) GetForUpdate(_ context.Context, id uuid.UUID) (*models.SalesOrder, error) {
	o, ok := s.t.data.orders[id]
	if !ok || o.OrgID != s.t.orgID {
		return nil, domain.ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (s orderStore) Insert(_ context.Context, order *models.SalesOrder) error {
	if _, exists := s.t.data.orders[order.ID]; exists {
		return &domain.DuplicateKeyError{Field: "id", Value: order.ID.String()}
	}
	if err := s.checkNumber(order); err != nil {
		return err
	}
	s.t.data.orders[order.ID] = order.Clone()
	return nil
}

func (s orderStore) Update(_ context.Context, order *models.SalesOrder) error {
	if _, exists := s.t.data.orders[order.ID]; !exists {
		return domain.ErrOrderNotFound
	}
	if err := s.checkNumber(order); err != nil {
		return err
	}
	s.t.data.orders[order.ID] = order.Clone()
	return nil
}

func (s orderStore) checkNumber(order *models.SalesOrder) error {
	for id, o := range s.t.data.orders {
		if id != order.ID && o.OrgID == order.OrgID && o.OrderNumber == order.OrderNumber {
			return &domain.DuplicateKeyError{Field: "order_number", Value: order.OrderNumber}
		}
	}
	return nil
}

func (s orderStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.t.data.orders, id)
	return nil
}

func (s orderStore) NextOrderNumber(_ context.Context) (int64, error) {
	s.t.data.sequences[s.t.orgID]++
	return s.t.data.sequences[s.t.orgID], nil
}

type stockStore struct{ t *tx }

func (s stockStore) GetForUpdate(_ context.Context, itemID uuid.UUID) (models.StockLevel, error) {
	it, ok := s.t.data.items[itemID]
	if !ok || it.orgID != s.t.orgID {
		return models.StockLevel{}, domain.ErrItemNotFound
	}
	return models.StockLevel{ItemID: itemID, Name: it.name, Stock: it.stock}, nil
}

func (s stockStore) SetStock(_ context.Context, itemID uuid.UUID, stock decimal.Decimal) error {
	it, ok := s.t.data.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	if stock.IsNegative() {
		return fmt.Errorf("stock for item %s would be negative: %s", itemID, stock)
	}
	it.stock = stock
	s.t.data.items[itemID] = it
	return nil
}

func (s stockStore) RecordMovement(_ context.Context, adj models.StockAdjustment) error {
	s.t.movements = append(s.t.movements, adj)
	return nil
}

type eventSink struct{ t *tx }

func (e eventSink) Publish(_ context.Context, evt events.Event) error {
	e.t.events = append(e.t.events, evt)
	return nil
}

// Clock is a settable time source for deterministic tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a Clock at t.
func NewClock(t time.Time) *Clock { return &Clock{now: t} }

// Now returns the current time and advances the clock by one second so
// successive orders get distinct timestamps.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Second)
	return t
}
