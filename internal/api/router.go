package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/neexbeast/travelrec/internal/metrics"
)

// NewRouter builds and returns the Chi router with all routes configured.
// Only the catalog reload requires bearer auth. db and redis may be nil when
// the backend is not configured.
// Rate limiting is applied globally: 60 requests per minute per IP.
func NewRouter(handlers *Handlers, token string, db, redis Pinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(metrics.Middleware)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/", handlers.HomePage)
	r.Get("/destinations", handlers.DestinationsPage)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", HealthHandlerFunc(db, redis, log))

		r.Get("/destinations", handlers.ListDestinations)
		r.Get("/destinations/search", handlers.SearchDestinations)
		r.Get("/destinations/{id}", handlers.GetDestination)
		r.Get("/destinations/{id}/time", handlers.GetDestinationTime)
		r.Get("/featured/stream", handlers.StreamFeatured)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(token))
			r.Post("/catalog/reload", handlers.ReloadCatalog)
		})
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
