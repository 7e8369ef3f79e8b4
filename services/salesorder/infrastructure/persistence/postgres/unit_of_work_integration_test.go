package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/inventra/pkg/database"
	"github.com/ghuser/inventra/pkg/logger"
	"github.com/ghuser/inventra/pkg/migrator"
	itemdb "github.com/ghuser/inventra/services/item/infrastructure/persistence/postgres/db"
	appsvcs "github.com/ghuser/inventra/services/salesorder/application/services"
	"github.com/ghuser/inventra/services/salesorder/domain"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
	"github.com/ghuser/inventra/services/salesorder/infrastructure/persistence/postgres"
)

// Integration tests run against a real database, skipped unless
// TEST_DATABASE_URL is set.
func setupDB(t *testing.T) *database.Database {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	}
	ctx := context.Background()
	if err := migrator.RunMigrations(ctx, url, os.DirFS("../../../../../migrations/item"), "item_goose_db_version", nil); err != nil {
		t.Fatalf("item migrations: %v", err)
	}
	if err := migrator.RunMigrations(ctx, url, os.DirFS("../../../../../migrations/salesorder"), "salesorder_goose_db_version", nil); err != nil {
		t.Fatalf("salesorder migrations: %v", err)
	}
	d, err := database.NewPool(ctx, url, logger.Discard(), database.WithMaxRetries(5))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func seedItem(t *testing.T, d *database.Database, orgID uuid.UUID, stock int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	if err := itemdb.New(d.DB()).InsertItem(context.Background(), itemdb.InsertItemParams{
		ID: id, OrgID: orgID, Sku: "IT-" + id.String()[:8], Name: "Item " + id.String()[:8],
		Rate: decimal.NewFromInt(1), Stock: decimal.NewFromInt(stock), CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return id
}

func stockOf(t *testing.T, d *database.Database, orgID, itemID uuid.UUID) decimal.Decimal {
	t.Helper()
	row, err := itemdb.New(d.DB()).GetItemByID(context.Background(), itemdb.GetItemByIDParams{ID: itemID, OrgID: orgID})
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	return row.Stock
}

func TestIntegration_LifecycleAndAtomicity(t *testing.T) {
	d := setupDB(t)
	ctx := context.Background()
	orgID := uuid.New()
	x, y := seedItem(t, d, orgID, 10), seedItem(t, d, orgID, 5)
	svc := appsvcs.NewSalesOrderService(postgres.NewTransactor(d, nil), postgres.NewOrderReader(d), logger.Discard())

	lines := func(xq, yq int64) []models.Line {
		return []models.Line{
			{ItemID: &x, Quantity: decimal.NewFromInt(xq)},
			{ItemID: &y, Quantity: decimal.NewFromInt(yq)},
		}
	}

	o, err := svc.Create(ctx, orgID, models.OrderInput{Status: models.StatusConfirmed, Lines: lines(3, 2)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.OrderNumber != "SO-0001" {
		t.Fatalf("order number = %q", o.OrderNumber)
	}
	if !stockOf(t, d, orgID, x).Equal(decimal.NewFromInt(7)) || !stockOf(t, d, orgID, y).Equal(decimal.NewFromInt(3)) {
		t.Fatal("create confirmed did not hold stock")
	}

	// Y cannot cover +10; X's +1 must roll back with it.
	if _, err := svc.Update(ctx, orgID, o.ID, models.OrderInput{Lines: lines(4, 12)}); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if !stockOf(t, d, orgID, x).Equal(decimal.NewFromInt(7)) {
		t.Fatal("failed update leaked a stock change")
	}
	stored, err := svc.Get(ctx, orgID, o.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !stored.Lines[0].Quantity.Equal(decimal.NewFromInt(3)) {
		t.Fatal("failed update leaked an order change")
	}

	if _, err := svc.Create(ctx, orgID, models.OrderInput{OrderNumber: "SO-0001"}); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	if _, err := svc.SetStatus(ctx, orgID, o.ID, "cancelled"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !stockOf(t, d, orgID, x).Equal(decimal.NewFromInt(10)) || !stockOf(t, d, orgID, y).Equal(decimal.NewFromInt(5)) {
		t.Fatal("cancel did not release stock")
	}

	movements, err := itemdb.New(d.DB()).CountStockMovements(ctx, itemdb.CountStockMovementsParams{OrgID: orgID, ItemID: x})
	if err != nil {
		t.Fatalf("count movements: %v", err)
	}
	if movements != 2 {
		t.Fatalf("expected hold + release movements for X, got %d", movements)
	}
}

func TestIntegration_ConcurrentConfirmsNeverOversell(t *testing.T) {
	d := setupDB(t)
	ctx := context.Background()
	orgID := uuid.New()
	itemID := seedItem(t, d, orgID, 3)
	svc := appsvcs.NewSalesOrderService(postgres.NewTransactor(d, nil), postgres.NewOrderReader(d), logger.Discard())

	var orders []uuid.UUID
	for range 8 {
		o, err := svc.Create(ctx, orgID, models.OrderInput{
			Lines: []models.Line{{ItemID: &itemID, Quantity: decimal.NewFromInt(1)}},
		})
		if err != nil {
			t.Fatalf("Create draft: %v", err)
		}
		orders = append(orders, o.ID)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		confirmed int
	)
	for _, id := range orders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SetStatus(ctx, orgID, id, "confirmed")
			switch {
			case err == nil:
				mu.Lock()
				confirmed++
				mu.Unlock()
			case !errors.Is(err, domain.ErrInsufficientStock):
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if confirmed != 3 {
		t.Fatalf("expected exactly 3 confirmations, got %d", confirmed)
	}
	if !stockOf(t, d, orgID, itemID).IsZero() {
		t.Fatalf("stock = %s, want 0", stockOf(t, d, orgID, itemID))
	}
}
