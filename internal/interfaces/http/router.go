// Package http wires the order API handlers into a chi route tree and
// serves it.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/titleorder/internal/interfaces/http/handlers"
	"github.com/turtacn/titleorder/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil handlers leave their routes unregistered.
type RouterConfig struct {
	SessionHandler   *handlers.SessionHandler
	CatalogHandler   *handlers.CatalogHandler
	PlacementHandler *handlers.PlacementHandler
	HealthHandler    *handlers.HealthHandler

	Logger           logging.Logger
	Logging          middleware.LoggingConfig
	MetricsCollector prometheus.MetricsCollector
	// MetricsPath defaults to /metrics.
	MetricsPath string
	// MaxBodySize limits request bodies; zero leaves them unlimited.
	MaxBodySize int64
}

// NewRouter constructs the HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogging(cfg.Logger.Named("http"), cfg.Logging))
	r.Use(chimw.Recoverer)
	if cfg.MaxBodySize > 0 {
		r.Use(chimw.RequestSize(cfg.MaxBodySize))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(chimw.AllowContentType("application/json"))
		registerSessionRoutes(api, cfg.SessionHandler)
		registerCatalogRoutes(api, cfg.CatalogHandler)
		registerPlacementRoutes(api, cfg.PlacementHandler)
	})

	return r
}

// registerSessionRoutes mounts the order session endpoints under /sessions.
func registerSessionRoutes(r chi.Router, h *handlers.SessionHandler) {
	if h == nil {
		return
	}
	r.Route("/sessions", func(sr chi.Router) {
		sr.Post("/", h.Create)

		sr.Route("/{sessionID}", func(s chi.Router) {
			s.Get("/", h.Get)
			s.Delete("/", h.Delete)
			s.Post("/abandon", h.Abandon)

			s.Put("/matter", h.SetMatter)
			s.Put("/region", h.ChangeRegion)
			s.Put("/product", h.SelectProduct)

			s.Post("/search", h.Search)
			s.Post("/paginate", h.Paginate)
			s.Post("/items/{itemID}/verify", h.Verify)
			s.Post("/items/{itemID}/initialize", h.InitializeOrder)

			s.Post("/chosen", h.Choose)
			s.Delete("/chosen/{lineID}", h.Unchoose)
			s.Post("/manual", h.ChooseManual)
			s.Post("/place", h.PlaceOrder)
		})
	})
}

// registerCatalogRoutes mounts the catalog and validation endpoints.
func registerCatalogRoutes(r chi.Router, h *handlers.CatalogHandler) {
	if h == nil {
		return
	}
	r.Get("/jurisdictions", h.ListJurisdictions)
	r.Get("/jurisdictions/{code}/products", h.ListProducts)
	r.Get("/products/{productCode}", h.GetProduct)
	r.Post("/validate/criteria", h.ValidateCriteria)
	r.Post("/validate/matter", h.ValidateMatter)
}

// registerPlacementRoutes mounts the placement history under /placements.
func registerPlacementRoutes(r chi.Router, h *handlers.PlacementHandler) {
	if h == nil {
		return
	}
	r.Get("/placements", h.List)
	r.Get("/placements/{placementID}", h.Get)
}
