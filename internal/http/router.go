package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

func NewRouter(h *Handler, logger *zap.Logger, allowOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(allowOrigins))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{productId}", h.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items", h.AddItem)
			r.Post("/items/{productId}/increment", h.IncrementItem)
			r.Post("/items/{productId}/decrement", h.DecrementItem)
			r.Post("/checkout", h.Checkout)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.EventFeed)
			r.Get("/text", h.EventFeedText)
			r.Get("/records", h.EventRecords)
			r.Get("/archive", h.ArchivedEvents)
		})
	})

	return r
}
