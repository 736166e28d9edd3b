package handler

import (
	"log/slog"
	"net/http"

	"github.com/goonline/platform/internal/usecase"
)

// MarketplaceHandler exposes the marketplace view-model and its search and
// category-filter intents as query parameters.
type MarketplaceHandler struct {
	controller *usecase.MarketplaceController
	logger     *slog.Logger
}

// NewMarketplaceHandler creates a MarketplaceHandler.
func NewMarketplaceHandler(c *usecase.MarketplaceController, logger *slog.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{controller: c, logger: logger}
}

// Browse handles GET /marketplace?q=&category=. Each request triggers a
// fresh load (the view's mount); the filter derivation is purely local.
func (h *MarketplaceHandler) Browse(w http.ResponseWriter, r *http.Request) {
	// Load errors surface through the view-model's error state, not as a
	// bare HTTP failure.
	_ = h.controller.Load(r.Context())

	view := h.controller.View(r.URL.Query().Get("q"), r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, view)
}
