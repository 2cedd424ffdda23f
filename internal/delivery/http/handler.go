package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/playsafe-labs/breakgate/internal/scheduler"
	"github.com/playsafe-labs/breakgate/pkg/logger"
)

type HTTPHandler struct {
	scheduler *scheduler.Scheduler
	logger    logger.Logger
}

func NewHTTPHandler(sched *scheduler.Scheduler, logger logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		scheduler: sched,
		logger:    logger,
	}
}

func (h *HTTPHandler) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/healthz", h.HealthCheck)
	r.Route("/api/v1/break", func(r chi.Router) {
		r.Get("/status", h.GetStatus)
		r.Post("/block", h.Block)
		r.Post("/unblock", h.Unblock)
		r.Post("/blocks/reset", h.ForceResetBlocks)
		r.Post("/trigger", h.RequestManualTrigger)
		r.Get("/trigger/peek", h.PeekManualTrigger)
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "breakgate-service",
	}
	h.respondJSON(w, http.StatusOK, response)
}

// GetStatus returns a diagnostic snapshot of the scheduler.
func (h *HTTPHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.scheduler.Status())
}

// Block registers one admission suppression request, cancelling any running
// countdown.
func (h *HTTPHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Block(r.Context())
	h.respondJSON(w, http.StatusOK, map[string]any{
		"blocked": h.scheduler.IsAdmissionBlocked(),
	})
}

func (h *HTTPHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Unblock(r.Context())
	h.respondJSON(w, http.StatusOK, map[string]any{
		"blocked": h.scheduler.IsAdmissionBlocked(),
	})
}

func (h *HTTPHandler) ForceResetBlocks(w http.ResponseWriter, r *http.Request) {
	h.scheduler.ForceResetBlocks(r.Context())
	h.respondJSON(w, http.StatusOK, map[string]any{
		"blocked": false,
	})
}

// RequestManualTrigger evaluates the frequency policy for an explicitly
// requested break. A denied request is a normal outcome, not an error.
func (h *HTTPHandler) RequestManualTrigger(w http.ResponseWriter, r *http.Request) {
	admitted, err := h.scheduler.RequestManualTrigger(r.Context())
	if err != nil {
		switch err {
		case scheduler.ErrBreakShowing:
			h.respondError(w, http.StatusConflict, "A break is already showing", err)
		default:
			h.logger.Errorf(r.Context(), "delivery.http.RequestManualTrigger: %v", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to request break", err)
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"admitted": admitted,
	})
}

// PeekManualTrigger previews whether the next manual trigger would fire.
func (h *HTTPHandler) PeekManualTrigger(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"would_fire": h.scheduler.WouldManualTriggerFire(),
	})
}

// Helper functions

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf(context.Background(), "Failed to encode JSON response: %v", err)
	}
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	response := map[string]any{
		"error": message,
		"code":  statusCode,
	}

	if err != nil {
		h.logger.Debugf(context.Background(), "Error response: %s: %v", message, err)
	}

	h.respondJSON(w, statusCode, response)
}
