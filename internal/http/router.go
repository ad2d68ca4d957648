package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Cart     *CartHandler
	Products *ProductHandler
	Orders   *OrdersHandler
	Payments *PaymentHandler
	Admin    *AdminHandler
	Wishlist *WishlistHandler
	Users    *UserHandler
}

func NewRouter(h Handlers, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MockAuthMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.ListProducts)
			r.Get("/{id}", h.Products.GetProduct)
			r.Post("/", h.Products.CreateProduct)
			r.Put("/{id}", h.Products.UpdateProduct)
			r.Delete("/{id}", h.Products.DeleteProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
			r.Delete("/", h.Cart.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Orders.PlaceOrder)
			r.Get("/", h.Orders.ListOrders)
			r.Get("/{id}", h.Orders.GetOrder)
			r.Put("/{id}/status", h.Orders.UpdateStatus)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/create-payment-intent", h.Payments.CreateIntent)
			r.Get("/verify/{payment_id}", h.Payments.VerifyIntent)
			r.Post("/webhook", h.Payments.Webhook)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/stats", h.Admin.Stats)
			r.Get("/orders/recent", h.Admin.RecentOrders)
			r.Get("/sales-data", h.Admin.SalesData)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.Wishlist.GetWishlist)
			r.Post("/items", h.Wishlist.AddItem)
			r.Delete("/items/{product_id}", h.Wishlist.RemoveItem)
		})

		r.Post("/users/logout", h.Users.Logout)
	})

	return r
}
