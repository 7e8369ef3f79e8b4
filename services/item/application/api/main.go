package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/inventra/pkg/app"
	"github.com/ghuser/inventra/services/item/application/handlers"
	appsvcs "github.com/ghuser/inventra/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
func ItemRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a), a)
}

// Mount registers the endpoints over an already wired service container.
func Mount(r chi.Router, svcs *appsvcs.Services, a *app.Application) {
	errs := a.Errors()
	r.Group(func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", handlers.NewListItemsHandler(svcs, errs).Execute)
			r.Post("/", handlers.NewPostItemHandler(svcs, errs).Execute)
			r.Get("/{id}", handlers.NewGetItemHandler(svcs, errs).Execute)
			r.Get("/{id}/movements", handlers.NewListMovementsHandler(svcs, errs).Execute)
		})
	})
}
