package handler

import (
	"log/slog"
	"net/http"

	"github.com/goonline/platform/internal/usecase"
)

// AnalyticsHandler exposes the platform-stats view-model.
type AnalyticsHandler struct {
	controller *usecase.AnalyticsController
	logger     *slog.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(c *usecase.AnalyticsController, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{controller: c, logger: logger}
}

// Stats handles GET /analytics.
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	_ = h.controller.Load(r.Context())
	writeJSON(w, http.StatusOK, h.controller.View())
}
