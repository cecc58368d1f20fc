package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neexbeast/travelrec/internal/destination"
	"github.com/neexbeast/travelrec/internal/metrics"
	"github.com/neexbeast/travelrec/internal/view"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	catalog      Catalog
	invalidators []CacheInvalidator
	defaultCity  string
	clockOpts    []view.ClockOption
	now          func() time.Time
	log          *slog.Logger
}

// Option customises Handlers.
type Option func(*Handlers)

// WithInvalidators registers caches that a catalog reload must clear first.
func WithInvalidators(invs ...CacheInvalidator) Option {
	return func(h *Handlers) { h.invalidators = append(h.invalidators, invs...) }
}

// WithDefaultCity sets the city hint used to pick the featured destination.
func WithDefaultCity(city string) Option {
	return func(h *Handlers) { h.defaultCity = city }
}

// WithClockOptions configures the clocks of streamed view sessions.
func WithClockOptions(opts ...view.ClockOption) Option {
	return func(h *Handlers) { h.clockOpts = append(h.clockOpts, opts...) }
}

// WithNow replaces the time source used for one-shot status lines.
func WithNow(now func() time.Time) Option {
	return func(h *Handlers) { h.now = now }
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(catalog Catalog, log *slog.Logger, opts ...Option) *Handlers {
	h := &Handlers{
		catalog: catalog,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string     `json:"error"`
	Card   *view.Card `json:"card,omitempty"`
	Status string     `json:"status,omitempty"`
}

type destinationResponse struct {
	destination.Record
	Card view.Card `json:"card"`
}

type listResponse struct {
	Count        int                   `json:"count"`
	Destinations []destinationResponse `json:"destinations"`
}

type featuredResponse struct {
	Record destination.Record `json:"record"`
	Card   view.Card          `json:"card"`
	Status string             `json:"status"`
}

type timeResponse struct {
	ID       int    `json:"id"`
	Timezone string `json:"timezone"`
	Status   string `json:"status"`
}

// writeUnavailable answers a request that needed records the catalog could
// not provide.
func (h *Handlers) writeUnavailable(w http.ResponseWriter, err error) {
	h.log.Error("destinations unavailable", "err", err)
	card := view.UnavailableCard()
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{
		Error:  view.UnavailableMessage,
		Card:   &card,
		Status: view.StatusPlaceholder,
	})
}

// statusLine formats the current time for r, logging a bad zone.
func (h *Handlers) statusLine(r destination.Record) string {
	line, err := view.StatusLine(h.now(), r.Timezone)
	if err != nil {
		h.log.Warn("timezone formatting failed, using local time", "id", r.ID, "timezone", r.Timezone, "err", err)
	}
	return line
}

// ListDestinations handles GET /api/v1/destinations.
// Returns one grid card per record, in list order.
func (h *Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	records, err := h.catalog.Load(r.Context())
	if err != nil {
		h.writeUnavailable(w, err)
		return
	}

	out := make([]destinationResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, destinationResponse{Record: rec, Card: view.GridCardFor(rec)})
	}
	writeJSON(w, http.StatusOK, listResponse{Count: len(out), Destinations: out})
}

// SearchDestinations handles GET /api/v1/destinations/search?q=.
// First match wins; an empty query returns the default destination.
func (h *Handlers) SearchDestinations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	records, err := h.catalog.Load(r.Context())
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		h.writeUnavailable(w, err)
		return
	}

	var (
		rec   destination.Record
		found bool
	)
	if q == "" {
		rec, found = destination.Default(records, h.defaultCity)
	} else {
		rec, found = destination.Find(records, q)
	}

	if !found {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeNoResults).Inc()
		card := view.NoResultsCard(q)
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:  fmt.Sprintf("No results for '%s'", q),
			Card:   &card,
			Status: view.StatusPlaceholder,
		})
		return
	}

	metrics.SearchesTotal.WithLabelValues(metrics.OutcomeFound).Inc()
	writeJSON(w, http.StatusOK, featuredResponse{
		Record: rec,
		Card:   view.CardFor(rec),
		Status: h.statusLine(rec),
	})
}

// lookup resolves the {id} URL parameter against the catalog and writes the
// error response itself when it fails.
func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (destination.Record, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid destination id"})
		return destination.Record{}, false
	}

	records, err := h.catalog.Load(r.Context())
	if err != nil {
		h.writeUnavailable(w, err)
		return destination.Record{}, false
	}

	rec, ok := destination.ByID(records, id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "destination not found"})
		return destination.Record{}, false
	}
	return rec, true
}

// GetDestination handles GET /api/v1/destinations/{id}.
func (h *Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, destinationResponse{Record: rec, Card: view.CardFor(rec)})
}

// GetDestinationTime handles GET /api/v1/destinations/{id}/time.
func (h *Handlers) GetDestinationTime(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, timeResponse{ID: rec.ID, Timezone: rec.Timezone, Status: h.statusLine(rec)})
}

// ReloadCatalog handles POST /api/v1/catalog/reload.
// Invalidates cached documents, then rebuilds the snapshot from the sources.
func (h *Handlers) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	for _, inv := range h.invalidators {
		if err := inv.Invalidate(r.Context()); err != nil {
			h.log.Warn("cache invalidate failed", "err", err)
		}
	}

	if err := h.catalog.Reload(r.Context()); err != nil {
		metrics.RecordReload(0, err)
		h.writeUnavailable(w, err)
		return
	}

	records, err := h.catalog.Load(r.Context())
	if err != nil {
		metrics.RecordReload(0, err)
		h.writeUnavailable(w, err)
		return
	}
	metrics.RecordReload(len(records), nil)

	h.log.Info("catalog reloaded", "records", len(records))
	writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded", "records": len(records)})
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis
// connectivity. A nil pinger is a backend that is not configured and reports
// "disabled" without affecting the overall status.
func HealthHandlerFunc(db, redis Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		check := func(name string, p Pinger) string {
			if p == nil {
				return "disabled"
			}
			if err := p.Ping(ctx); err != nil {
				log.Error("health check: ping failed", "backend", name, "err", err)
				status = http.StatusServiceUnavailable
				return "error"
			}
			return "ok"
		}

		dbStatus := check("db", db)
		redisStatus := check("redis", redis)

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
