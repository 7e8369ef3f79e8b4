package services

import (
	"github.com/ghuser/inventra/pkg/app"
	"github.com/ghuser/inventra/pkg/cache"
	"github.com/ghuser/inventra/services/item/infrastructure/persistence/postgres"
)

// Services groups the item use cases mounted by the item API.
type Services struct {
	Item *ItemService
}

// New wires the item service onto the shared pool and event bus. Reads go
// through the Redis item cache only when Redis is configured.
func New(a *app.Application) *Services {
	var itemCache ItemCache
	if a.Redis != nil {
		itemCache = cache.NewItemCache(a.Redis)
	}
	return &Services{
		Item: NewItemService(postgres.NewItemRepository(a.Db, a.EventBus), itemCache, a.Logger),
	}
}
