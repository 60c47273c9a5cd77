// Package api registers the marketplace bounded context's HTTP routes.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/marketledger/pkg/app"
	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/services/marketplace/application/handlers"
	"github.com/ghuser/marketledger/services/marketplace/application/services"
)

// MarketplaceRoutes mounts the ledger, product, account, and session routes.
// Reads are public; mutating routes require a session.
func MarketplaceRoutes(r chi.Router, a *app.Application) {
	svc := services.New(a)
	requireAuth := auth.RequireAuth(a.SessionStore, a.Logger)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", handlers.CreateSession(a.SessionStore, a.Logger))
		r.Delete("/", handlers.DeleteSession(a.SessionStore, a.Logger))
	})

	r.Get("/ledger", handlers.GetLedger(svc, a.Logger))

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handlers.ListProducts(svc, a.Logger))
		r.Get("/{id}", handlers.GetProduct(svc, a.Logger))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", handlers.CreateProduct(svc, a.Logger))
			r.Post("/{id}/purchase", handlers.PurchaseProduct(svc, a.Logger))
		})
	})

	r.Route("/accounts/me", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/balance", handlers.GetBalance(svc, a.Logger))
		r.Post("/deposits", handlers.CreateDeposit(svc, a.Logger))
	})
}
