package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/inventory-system/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-system/internal/http/middleware"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Post("/login", handlers.LoginHandler)

	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/{id}", handlers.GetProductByIDHandler)
	r.Get("/products/{id}/recommendations", handlers.GetRecommendationsHandler)
	r.Get("/products/{id}/purchases", handlers.GetPurchasesHandler)
	r.With(mw.RateLimitMiddleware).Post("/products/{id}/purchase", handlers.PurchaseProductHandler)

	r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware)
		r.Post("/products", handlers.CreateProductHandler)
		r.Post("/products/import", handlers.ImportProductsHandler)
	})

	return r
}
