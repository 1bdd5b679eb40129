package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tofucode-dev/tofu-store/internal/service"
	"github.com/tofucode-dev/tofu-store/pkg/health"
	"github.com/tofucode-dev/tofu-store/pkg/middleware"
)

// Cache lifetimes for the public read endpoints.
const (
	listingCacheSeconds = 60
	productCacheSeconds = 300
	sitemapCacheSeconds = 3600
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	analyticsService *service.AnalyticsService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(catalogService, logger)
	cartHandler := NewCartHandler(cartService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)
	analyticsHandler := NewAnalyticsHandler(analyticsService, logger)

	// Public listing routes. The full URL, path and query, is the search
	// state, so both the bare listing and the category wildcard land on the
	// same handler.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CacheControl(listingCacheSeconds))
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/*", catalogHandler.ListProducts)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.CacheControl(sitemapCacheSeconds))
		r.Get("/sitemap.xml", catalogHandler.Sitemap)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(productCacheSeconds))
			r.Get("/product/{slug}", catalogHandler.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(UserIDFromHeader)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/checkout", checkoutHandler.Checkout)
		})

		r.Get("/orders", checkoutHandler.ListOrders)
		r.Get("/orders/{orderId}", checkoutHandler.GetOrder)

		r.Post("/analytics/events", analyticsHandler.TrackEvent)
	})

	return r
}
