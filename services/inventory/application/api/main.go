package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/restocker/pkg/app"
	"github.com/ghuser/restocker/pkg/auth"
	"github.com/ghuser/restocker/pkg/logger"
	"github.com/ghuser/restocker/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/restocker/services/inventory/application/services"
)

// InventoryRoutes registers inventory endpoints on the provided chi router.
// When a session store is configured every route runs inside a device
// session so preferences follow the browser.
func InventoryRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		if a.SessionStore != nil {
			r.Use(auth.Device(a.SessionStore, a.Logger))
		}
		Mount(r, svcs, a.Logger, a.Config.SpendMonths)
	})
}

// Mount registers the inventory handlers backed by svcs.
func Mount(r chi.Router, svcs *appsvcs.Services, log logger.Logger, spendMonths int) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.NewListItemsHandler(svcs).Execute)
		r.Post("/", handlers.NewPostItemHandler(svcs, log).Execute)
		r.Post("/import", handlers.NewImportItemsHandler(svcs).Execute)
		r.Get("/export", handlers.NewExportItemsHandler(svcs).Execute)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.NewGetItemHandler(svcs).Execute)
			r.Put("/", handlers.NewPutItemHandler(svcs, log).Execute)
			r.Patch("/", handlers.NewPatchItemHandler(svcs, log).Execute)
			r.Delete("/", handlers.NewDeleteItemHandler(svcs).Execute)
			r.Post("/activity", handlers.NewPostActivityHandler(svcs).Execute)
		})
	})
	r.Get("/basket", handlers.NewGetBasketHandler(svcs).Execute)
	r.Get("/prices/best", handlers.NewGetBestPriceHandler(svcs).Execute)
	r.Get("/spend", handlers.NewGetSpendHandler(svcs, spendMonths).Execute)
	r.Get("/barcodes/{code}", handlers.NewGetBarcodeHandler(svcs).Execute)
	r.Get("/preferences", handlers.NewGetPreferencesHandler(svcs).Execute)
	r.Put("/preferences", handlers.NewPutPreferencesHandler(svcs).Execute)
}
