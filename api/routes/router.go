package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-cart/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-cart/api/controllers/cart"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// Deps groups everything the HTTP surface needs.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Sessions      cartcontrollers.Sessions
	Notifications cartcontrollers.Notifications
	Ready         map[string]controllers.Pinger
	Gatherer      prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Get("/", cartcontrollers.CartFetch(deps.Sessions, logg))
		r.Get("/notifications", cartcontrollers.CartNotifications(deps.Notifications, logg))
		r.Post("/items", cartcontrollers.CartAddItem(deps.Sessions, logg))
		r.Patch("/items/{productId}", cartcontrollers.CartUpdateItem(deps.Sessions, logg))
		r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(deps.Sessions, logg))
	})

	return r
}
