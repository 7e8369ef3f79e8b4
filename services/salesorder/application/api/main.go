package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/inventra/pkg/app"
	"github.com/ghuser/inventra/services/salesorder/application/handlers"
	appsvcs "github.com/ghuser/inventra/services/salesorder/application/services"
)

// SalesOrderRoutes registers sales order endpoints on the provided chi router.
func SalesOrderRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a), a)
}

// Mount registers the endpoints over an already wired service container.
func Mount(r chi.Router, svcs *appsvcs.Services, a *app.Application) {
	errs := a.Errors()
	r.Route("/sales-orders", func(r chi.Router) {
		r.Get("/", handlers.NewListSalesOrdersHandler(svcs, errs).Execute)
		r.Post("/", handlers.NewPostSalesOrderHandler(svcs, errs).Execute)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.NewGetSalesOrderHandler(svcs, errs).Execute)
			r.Put("/", handlers.NewPutSalesOrderHandler(svcs, errs).Execute)
			r.Delete("/", handlers.NewDeleteSalesOrderHandler(svcs, errs).Execute)
			r.Patch("/status", handlers.NewPatchStatusHandler(svcs, errs).Execute)
			r.Patch("/fulfillment-status", handlers.NewPatchFulfillmentStatusHandler(svcs, errs).Execute)
		})
	})
}
