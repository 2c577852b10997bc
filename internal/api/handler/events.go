package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/albapepper/booking-notifier/internal/api/respond"
	"github.com/albapepper/booking-notifier/internal/events"
	"github.com/albapepper/booking-notifier/internal/maintenance"
)

const maxEventBytes = 1 << 20

// EventAccepted is the response to a posted change.
type EventAccepted struct {
	EventID string `json:"event_id"`
	Handled bool   `json:"handled"`
}

// PostEvent accepts one change envelope from an external trigger.
// @Summary Submit a record change
// @Description Runs the notification handlers for a create or update of an order or service record. Events without event_id get one assigned. A repeated event_id is acknowledged without side effects.
// @Tags events
// @Accept json
// @Produce json
// @Param change body events.Change true "Change envelope"
// @Success 202 {object} EventAccepted
// @Failure 400 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/v1/events [post]
func (h *Handler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var change events.Change
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err := dec.Decode(&change); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", err.Error())
		return
	}
	if change.EventID == "" {
		change.EventID = uuid.NewString()
	}

	handled, err := h.events.Dispatch(r.Context(), change)
	switch {
	case errors.Is(err, events.ErrUnknownCollection):
		respond.WriteErrorDetail(w, http.StatusUnprocessableEntity, "UNKNOWN_COLLECTION", "Collection is not watched", err.Error())
		return
	case errors.Is(err, events.ErrMalformedSnapshot):
		respond.WriteErrorDetail(w, http.StatusUnprocessableEntity, "MALFORMED_EVENT", "Change envelope is invalid", err.Error())
		return
	case err != nil:
		h.logger.Error("Event dispatch failed", "event_id", change.EventID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Event dispatch failed")
		return
	}

	respond.WriteJSONObject(w, http.StatusAccepted, EventAccepted{EventID: change.EventID, Handled: handled})
}

// ScanResponse reports a manual reminder scan.
type ScanResponse struct {
	Found      int      `json:"found"`
	Reminded   int      `json:"reminded"`
	Skipped    int      `json:"skipped"`
	Unlinked   int      `json:"unlinked"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
	DurationMS int64    `json:"duration_ms"`
	Summary    string   `json:"summary"`
}

// ScanReminders runs one reminder scan now.
// @Summary Run the booking reminder scan
// @Description Sends reminders for bookings due in the reminder window that have not been reminded yet.
// @Tags reminders
// @Produce json
// @Success 200 {object} ScanResponse
// @Router /api/v1/reminders/scan [post]
func (h *Handler) ScanReminders(w http.ResponseWriter, r *http.Request) {
	res := maintenance.RunReminderScan(r.Context(), h.scanner, h.now(), h.logger)
	respond.WriteJSONObject(w, http.StatusOK, ScanResponse{
		Found:      res.Found,
		Reminded:   res.Reminded,
		Skipped:    res.Skipped,
		Unlinked:   res.Unlinked,
		Failed:     res.Failed,
		Errors:     res.Errors,
		DurationMS: res.Duration.Milliseconds(),
		Summary:    res.Summary(),
	})
}
