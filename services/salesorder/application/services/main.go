package services

import (
	"github.com/ghuser/inventra/pkg/app"
	"github.com/ghuser/inventra/pkg/cache"
	"github.com/ghuser/inventra/services/salesorder/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	SalesOrder *SalesOrderService
}

// New wires the sales order orchestrator onto the shared Postgres pool,
// the outbox event bus and, when Redis is configured, idempotency keys.
func New(a *app.Application) *Services {
	opts := []Option{}
	if a.Config != nil {
		opts = append(opts, WithOrderNumberPrefix(a.Config.OrderNumberPrefix))
		if a.Redis != nil {
			opts = append(opts, WithIdempotencyStore(
				cache.NewIdempotencyStore(a.Redis, "salesorder", a.Config.IdempotencyTTL)))
		}
	}
	return &Services{
		SalesOrder: NewSalesOrderService(
			postgres.NewTransactor(a.Db, a.EventBus),
			postgres.NewOrderReader(a.Db),
			a.Logger,
			opts...,
		),
	}
}
