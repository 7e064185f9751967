package devserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/storefront/internal/devserver/handlers"
	"github.com/linemk/storefront/internal/devserver/store"
	"github.com/linemk/storefront/internal/lib/logger/handlers/reqlog"
	"github.com/linemk/storefront/internal/security/jwtmiddleware"
)

// New assembles the stub backend router: the REST surface the storefront
// client consumes, with JWT auth on everything but login and an extra admin
// guard on the admin listing. Requires JWT_SECRET to be set.
func New(log *slog.Logger, users store.UserStore, carts store.CartStore, orders store.OrderStore, tokenTTL time.Duration) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(reqlog.Middleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/api/auth", handlers.AuthHandler(log, users, tokenTTL))

	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.New()
		r.Use(jwtMW)

		r.Get("/api/cart", handlers.GetCartHandler(log, carts))
		r.Put("/api/cart/items/{productID}", handlers.UpdateCartItemHandler(log, carts))
		r.Delete("/api/cart/items/{productID}", handlers.RemoveCartItemHandler(log, carts))

		r.Post("/api/orders/checkout", handlers.CheckoutHandler(log, carts, orders))
		r.Get("/api/orders", handlers.ListOrdersHandler(log, orders))
		r.Get("/api/orders/{id}", handlers.GetOrderHandler(log, orders))
		r.Put("/api/orders/{id}/status", handlers.UpdateOrderStatusHandler(log, orders))

		r.Group(func(r chi.Router) {
			r.Use(jwtmiddleware.RequireAdmin)
			r.Get("/api/admin/orders", handlers.ListAllOrdersHandler(log, orders))
		})
	})

	return router
}
