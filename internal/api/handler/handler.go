// Package handler provides HTTP handlers for all API endpoints: health,
// the inbound change webhook and the on-demand reminder scan.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/booking-notifier/internal/api/respond"
	"github.com/albapepper/booking-notifier/internal/events"
	"github.com/albapepper/booking-notifier/internal/reminder"
)

// HealthChecker is satisfied by db.Pool.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EventDispatcher is satisfied by events.Router.
type EventDispatcher interface {
	Dispatch(ctx context.Context, c events.Change) (bool, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	db      HealthChecker
	events  EventDispatcher
	scanner *reminder.Scanner
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a Handler with shared dependencies. db may be nil when the
// service runs on the in-memory store.
func New(db HealthChecker, events EventDispatcher, scanner *reminder.Scanner, logger *slog.Logger) *Handler {
	return &Handler{db: db, events: events, scanner: scanner, now: time.Now, logger: logger}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":    "Booking Notifier",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"database":  "memory",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
