package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cartHandler *CartHandler, catalogHandler *CatalogHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", catalogHandler.ListProducts)
		r.Get("/{productId}", catalogHandler.GetProduct)
	})
	r.Get("/api/categories", catalogHandler.ListCategories)

	r.Route("/api/cart/{profileId}", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/items", cartHandler.AddItem)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)
		r.Put("/items/{productId}/quantity", cartHandler.UpdateQuantity)
		r.Put("/items/{productId}/variant", cartHandler.UpdateVariant)
		r.Post("/checkout", cartHandler.Checkout)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}
