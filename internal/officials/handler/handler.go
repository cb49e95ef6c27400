// Package handler exposes the curated officials admin CRUD endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"represent/internal/officials/models"
	dErrors "represent/pkg/domain-errors"
	"represent/pkg/platform/httputil"
)

// Service defines the interface for officials operations.
type Service interface {
	Create(ctx context.Context, official *models.Official) (*models.Official, error)
	Get(ctx context.Context, id string) (*models.Official, error)
	List(ctx context.Context) ([]*models.Official, error)
	Update(ctx context.Context, official *models.Official) (*models.Official, error)
	Delete(ctx context.Context, id string) error
}

// Handler wires officials endpoints to the officials service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an officials handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts officials endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/officials", h.handleCreate)
	r.Get("/officials", h.handleList)
	r.Get("/officials/{id}", h.handleGet)
	r.Put("/officials/{id}", h.handleUpdate)
	r.Delete("/officials/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var official models.Official
	if err := json.NewDecoder(r.Body).Decode(&official); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &official)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	officials, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"officials": officials})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	official, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, official)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var official models.Official
	if err := json.NewDecoder(r.Body).Decode(&official); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	official.ID = chi.URLParam(r, "id")

	updated, err := h.service.Update(r.Context(), &official)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
