package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// gatherer backs the /metrics endpoint; nil serves the default registry.
func New(
	catalogHandler *handler.CatalogHandler,
	checkoutHandler *handler.CheckoutHandler,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	// Recovery -> Logging -> Metrics -> CORS -> APIKeyAuth -> Session
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS())
	r.Use(middleware.APIKeyAuth(apiKey, logger))
	r.Use(middleware.Session)

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/products/{slug}", catalogHandler.GetProduct)
		r.Post("/products/{id}/resolve", catalogHandler.Resolve)
		r.Post("/variants/resolve", catalogHandler.ResolveCatalog)

		r.Post("/pricing/quote", checkoutHandler.Quote)
		r.Post("/orders", checkoutHandler.PlaceOrder)
		r.Get("/orders/{id}", checkoutHandler.GetOrder)
	})

	return r
}
