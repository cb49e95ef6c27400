// Package handler exposes the representative lookup endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"represent/internal/lookup/models"
	dErrors "represent/pkg/domain-errors"
	"represent/pkg/platform/httputil"
	"represent/pkg/requestcontext"
)

// Service defines the interface for lookup operations.
type Service interface {
	Aggregate(ctx context.Context, address string) (*models.Envelope, error)
}

// Handler wires the lookup endpoint to the aggregator service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a lookup handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the lookup endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/representatives", h.HandleLookup)
}

// HandleLookup handles GET /representatives?address=... requests.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !r.URL.Query().Has("address") {
		httputil.WriteError(w, dErrors.New(dErrors.CodeMissingParameter,
			"Address parameter is required").
			WithDetails("The 'address' query parameter must be provided"))
		return
	}
	address := r.URL.Query().Get("address")

	envelope, err := h.service.Aggregate(ctx, address)
	if err != nil {
		h.logger.ErrorContext(ctx, "lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, envelope)
}
