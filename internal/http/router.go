package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/http/handlers"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/offer"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/session"
)

type Deps struct {
	Logger *slog.Logger
	Cfg    config.Config

	Catalog *clients.CatalogClient
	Offers  *offer.Service

	// Sessions is optional; the session routes are not mounted without it.
	Sessions *session.Store

	HealthProbes []clients.HealthProbe
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Middlewares (outer -> inner)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(d.Logger))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.CORS(d.Cfg.CORSAllowOrigins))
	r.Use(middleware.Authorization)
	r.Use(middleware.Recover(d.Logger))

	// Health
	health := &handlers.HealthHandler{Probes: d.HealthProbes}
	r.Get("/health", health.Gateway)
	r.Get("/health/upstreams", health.Upstreams)

	relay := &handlers.Relay{
		Catalog:     d.Catalog,
		Logger:      d.Logger,
		FixtureMode: d.Cfg.FixtureMode,
		Timeout:     d.Cfg.UpstreamTimeout,
	}

	r.Route("/api", func(r chi.Router) {
		// Catalog resources
		for _, res := range handlers.DefaultResources(d.Cfg.ProductUpdateTimeout) {
			h := handlers.NewResourceHandler(res, relay)
			r.Route("/"+res.Name, func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Get("/{id}", h.Get)
				r.Put("/{id}", h.Update)
				r.Patch("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
			})
		}

		// Offers
		offers := handlers.NewOfferHandler(relay, d.Offers)
		r.Route("/offers", func(r chi.Router) {
			r.Get("/", offers.List)
			r.Post("/", offers.Create)
			r.Get("/{id}", offers.Get)
			r.Put("/{id}", offers.Update)
			r.Patch("/{id}", offers.Update)
			r.Delete("/{id}", offers.Delete)
			r.Post("/{id}/items", offers.AddItem)
			r.Post("/{id}/modifiers", offers.ApplyModifier)
		})

		cache := handlers.NewOfferCacheHandler(d.Offers.Cache())
		r.Get("/offer-cache", cache.List)
		r.Delete("/offer-cache", cache.Clear)
		r.Delete("/offer-cache/{id}", cache.Remove)

		// Sessions
		if d.Sessions != nil {
			sessions := handlers.NewSessionHandler(d.Sessions, d.Logger)
			r.Post("/save-session", sessions.Save)
			r.Get("/sessions", sessions.List)
			r.Get("/sessions/{id}", sessions.Get)
		}
	})

	return otelhttp.NewHandler(r, "sales-admin")
}
