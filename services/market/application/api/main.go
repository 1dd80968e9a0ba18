package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/marketledger/pkg/app"
	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/services/market/application/handlers"
	appsvcs "github.com/ghuser/marketledger/services/market/application/services"
)

// MarketRoutes registers market endpoints on the provided chi router.
// Reads are public; mutations and index queries require an authenticated
// account.
func MarketRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)

	r.Route("/items", func(r chi.Router) {
		r.Get("/count", handlers.NewCountItemsHandler(svcs).Execute)
		r.Get("/{id}", handlers.NewGetItemHandler(svcs).Execute)
		r.Get("/{id}/summary", handlers.NewGetItemSummaryHandler(svcs).Execute)
		r.Get("/{id}/fee", handlers.NewQuoteFeeHandler(svcs).Execute)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAccount(a.SessionStore, a.Logger))
			r.Post("/", handlers.NewListItemHandler(svcs).Execute)
			r.Post("/{id}/buy", handlers.NewBuyItemHandler(svcs).Execute)
			r.Post("/{id}/unlist", handlers.NewUnlistItemHandler(svcs).Execute)
			r.Post("/{id}/relist", handlers.NewRelistItemHandler(svcs).Execute)
		})
	})

	r.Get("/fee", handlers.NewGetFeeHandler(svcs).Execute)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccount(a.SessionStore, a.Logger))
		r.Put("/fee", handlers.NewSetFeeHandler(svcs).Execute)
		r.Get("/accounts/{account}/items", handlers.NewOwnedItemsHandler(svcs).Execute)
	})
}
