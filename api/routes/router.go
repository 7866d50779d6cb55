package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spectra-eyewear/spectra-backend/api/controllers"
	cartcontrollers "github.com/spectra-eyewear/spectra-backend/api/controllers/cart"
	catalogcontrollers "github.com/spectra-eyewear/spectra-backend/api/controllers/catalog"
	checkoutcontrollers "github.com/spectra-eyewear/spectra-backend/api/controllers/checkout"
	"github.com/spectra-eyewear/spectra-backend/api/middleware"
	cartsvc "github.com/spectra-eyewear/spectra-backend/internal/cart"
	checkoutsvc "github.com/spectra-eyewear/spectra-backend/internal/checkout"
	"github.com/spectra-eyewear/spectra-backend/pkg/config"
	"github.com/spectra-eyewear/spectra-backend/pkg/logger"
	"github.com/spectra-eyewear/spectra-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.RateLimit.CheckoutWindow,
		cfg.RateLimit.CheckoutIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", catalogcontrollers.ListProducts(logg))
		r.Get("/{productID}", catalogcontrollers.GetProduct(logg))
	})
	r.Get("/api/v1/shipping-options", catalogcontrollers.ListShippingOptions(logg))

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.CartToken(logg))
		r.Get("/", cartcontrollers.Fetch(cartService, cfg.Checkout, logg))
		r.Delete("/", cartcontrollers.Clear(cartService, logg))
		r.Post("/items", cartcontrollers.AddItem(cartService, cfg.Checkout, logg))
		r.Patch("/items/{itemID}", cartcontrollers.UpdateQuantity(cartService, cfg.Checkout, logg))
		r.Delete("/items/{itemID}", cartcontrollers.RemoveItem(cartService, cfg.Checkout, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.With(middleware.RateLimit(checkoutPolicy, redisClient, logg)).
			Post("/session", checkoutcontrollers.CreateSession(checkoutService, logg))
		r.Get("/session/{sessionID}", checkoutcontrollers.GetOrderDetails(checkoutService, logg))
		r.Post("/validate", checkoutcontrollers.ValidateField(logg))
		r.Get("/retry-delay", checkoutcontrollers.RetryDelay())
	})

	return r
}
