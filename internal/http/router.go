package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	DefaultUserID  string
}

// NewRouter wires the storefront API. The surface mirrors what the web
// storefront consumes: cart mutations, catalog reads, checkout, order
// history.
func NewRouter(cfg RouterConfig, carts *CartHandler, books *BookHandler, checkouts *CheckoutHandler, orders *OrdersHandler) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(cfg.DefaultUserID))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Delete("/", carts.ClearCart)
			r.Post("/items", carts.AddItem)
			r.Put("/items/{id}", carts.AdjustQuantity)
			r.Delete("/items/{id}", carts.RemoveItem)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", books.ListBooks)
			r.Get("/{id}", books.GetBook)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkouts.PlaceOrder)
			r.Get("/state", checkouts.State)
		})

		r.Get("/orders", orders.ListOrders)
	})

	return otelhttp.NewHandler(r, "storefront")
}
