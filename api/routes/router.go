package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vintagegrove/backend/api/controllers"
	"github.com/vintagegrove/backend/api/middleware"
	"github.com/vintagegrove/backend/internal/cart"
	"github.com/vintagegrove/backend/internal/catalog"
	"github.com/vintagegrove/backend/internal/tracking"
	"github.com/vintagegrove/backend/pkg/config"
	"github.com/vintagegrove/backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	catalogService catalog.Service,
	cartService cart.Service,
	trackingService tracking.Service,
	metricsRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Attribution(cfg.Attribution),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisP))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products/{sku}", controllers.GetProduct(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Delete("/", controllers.ClearCart(cartService, logg))
			r.Post("/items", controllers.AddCartItem(cartService, logg))
			r.Delete("/items/{sku}", controllers.RemoveCartItem(cartService, logg))
		})

		r.Route("/track", func(r chi.Router) {
			r.Post("/view-content", controllers.TrackViewContent(trackingService, logg))
			r.Post("/initiate-checkout", controllers.TrackInitiateCheckout(trackingService, logg))
			r.Post("/purchase", controllers.TrackPurchase(trackingService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/login", controllers.AdminLogin(cfg.Admin, logg))
		r.Post("/logout", controllers.AdminLogout(cfg.Admin))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly(cfg.Admin, logg))
			r.Get("/ping", controllers.AdminPing())
			r.Post("/products", controllers.CreateProduct(catalogService, logg))
			r.Get("/tracking/config", controllers.AdminTrackingConfig(cfg.Meta))
		})
	})

	return r
}
