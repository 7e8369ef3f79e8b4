package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	pkgcache "github.com/ghuser/inventra/pkg/cache"
	"github.com/ghuser/inventra/pkg/logger"
	itemdomain "github.com/ghuser/inventra/services/item/domain"
	"github.com/ghuser/inventra/services/item/domain/models"
	"github.com/ghuser/inventra/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/inventra/services/item/domain/services"
)

// ItemCache is the read-model cache used by GetByID. Satisfied by *cache.ItemCache.
type ItemCache interface {
	Get(ctx context.Context, orgID, itemID uuid.UUID) (*pkgcache.CachedItem, error)
	Set(ctx context.Context, item *pkgcache.CachedItem) error
}

// CreateItemInput carries the fields of a new item.
type CreateItemInput struct {
	SKU          string
	Name         string
	Rate         decimal.Decimal
	OpeningStock decimal.Decimal
}

// ItemService orchestrates creation and retrieval of Items.
// Event publishing is handled by the repository layer (outbox pattern).
// Reads by id are served from Redis cache when available.
type ItemService struct {
	repo  repositories.ItemRepository
	cache ItemCache
	log   logger.Logger
}

// NewItemService returns an ItemService wired with the given repository and cache.
// cache may be nil.
func NewItemService(repo repositories.ItemRepository, itemCache ItemCache, log logger.Logger) *ItemService {
	return &ItemService{repo: repo, cache: itemCache, log: log.With("component", "item")}
}

// Create validates and persists an Item with its opening stock. The
// repository records the opening movement and publishes ItemCreatedEvent.
func (s *ItemService) Create(ctx context.Context, orgID uuid.UUID, in CreateItemInput) (*models.Item, error) {
	itemName, err := models.NewItemName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	sku, err := models.NewSKU(in.SKU)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}

	item := models.NewItem(orgID, sku, itemName, in.Rate, in.OpeningStock)
	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}

	s.log.InfoContext(ctx, "item created",
		"org_id", orgID, "item_id", item.ID, "sku", item.SKU, "opening_stock", item.Stock.String())
	return item, nil
}

// GetByID retrieves an Item using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
//
// Cached entries carry stock and are dropped by the worker whenever a
// stock.adjusted event names the item.
func (s *ItemService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Item, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, orgID, id)
		if err == nil {
			return fromCached(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
	}

	item, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if s.cache != nil {
		entry := ToCached(item)
		go func() {
			if err := s.cache.Set(context.Background(), entry); err != nil {
				s.log.Warn("item cache warm failed", "item_id", entry.ID, "error", err)
			}
		}()
	}

	return item, nil
}

// Search returns a page of items matching opts.Query plus the total count.
func (s *ItemService) Search(ctx context.Context, orgID uuid.UUID, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	items, total, err := s.repo.Search(ctx, orgID, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("search items: %w", err)
	}
	return items, total, nil
}

// Movements returns a page of the item's stock ledger. Returns
// ErrItemNotFound when the item does not exist in the org.
func (s *ItemService) Movements(ctx context.Context, orgID, itemID uuid.UUID, opts repositories.QueryOpts) ([]*models.StockMovement, int, error) {
	if _, err := s.repo.GetByID(ctx, orgID, itemID); err != nil {
		return nil, 0, fmt.Errorf("get item: %w", err)
	}
	movements, total, err := s.repo.Movements(ctx, orgID, itemID, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	return movements, total, nil
}

// ToCached converts an Item to its cache representation.
func ToCached(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:        item.ID,
		OrgID:     item.OrgID,
		SKU:       item.SKU.String(),
		Name:      item.Name.String(),
		Rate:      item.Rate,
		Stock:     item.Stock,
		CreatedAt: item.CreatedAt,
	}
}

func fromCached(c *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:        c.ID,
		OrgID:     c.OrgID,
		SKU:       models.SKU(c.SKU),
		Name:      models.ItemName(c.Name),
		Rate:      c.Rate,
		Stock:     c.Stock,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.CreatedAt,
	}
}
