package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goonline/platform/internal/domain"
	"github.com/goonline/platform/internal/usecase"
)

// DashboardHandler exposes the owner dashboard view-model and its create,
// update, and delete intents.
type DashboardHandler struct {
	controller *usecase.DashboardController
	logger     *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(c *usecase.DashboardController, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{controller: c, logger: logger}
}

// List handles GET /dashboard.
func (h *DashboardHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Load(r.Context()); err != nil {
		// The view-model carries the error state; session loss is the one
		// case that must escape as a real failure.
		if errors.Is(err, usecase.ErrNoSession) {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, h.controller.View())
}

// Create handles POST /dashboard/businesses.
func (h *DashboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft domain.BusinessDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	created, err := h.controller.Create(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /dashboard/businesses/{id}.
func (h *DashboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid listing id"})
		return
	}

	var draft domain.BusinessDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	updated, err := h.controller.Update(r.Context(), id, draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /dashboard/businesses/{id}?confirmed=true. The
// intent only fires for a confirmed action; an unconfirmed request is
// rejected before any remote call.
func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid listing id"})
		return
	}

	if r.URL.Query().Get("confirmed") != "true" {
		writeJSON(w, http.StatusPreconditionRequired, map[string]string{"error": "deletion must be confirmed"})
		return
	}

	if err := h.controller.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
