package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/goonline/platform/internal/adapter/metrics"
	"github.com/goonline/platform/internal/domain"
)

// MarketplaceController owns the public browse view: all active listings,
// newest first, enriched with the owner display name, filtered locally by
// search term and category.
type MarketplaceController struct {
	repo    domain.BusinessRepository
	logger  *slog.Logger
	metrics *metrics.ViewMetrics
	loader  *loader[[]domain.Business]
}

// NewMarketplaceController creates an idle marketplace controller.
func NewMarketplaceController(repo domain.BusinessRepository, logger *slog.Logger, m *metrics.ViewMetrics) *MarketplaceController {
	return &MarketplaceController{
		repo:    repo,
		logger:  logger,
		metrics: m,
		loader:  newLoader[[]domain.Business](),
	}
}

// MarketplaceView is the read-only view-model exposed to the rendering
// layer.
type MarketplaceView struct {
	Status     Status            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Listings   []domain.Business `json:"listings"`
	Categories []string          `json:"categories"`
	Shown      int               `json:"shown"`
	Total      int               `json:"total"`

	// Filtered reports whether an empty listing set is the result of the
	// active filters rather than an empty collection.
	Filtered bool `json:"filtered"`
}

// Load fetches the active-listing base set. Concurrent loads resolve
// last-triggered-wins; a superseded result is discarded.
func (c *MarketplaceController) Load(ctx context.Context) error {
	seq := c.loader.begin()
	start := time.Now()

	listings, err := c.repo.List(ctx, domain.BusinessFilter{
		Status:       domain.StatusActive,
		IncludeOwner: true,
	})

	applied := c.loader.complete(seq, listings, err)
	observeLoad(c.metrics, "marketplace", start, err, applied)
	if err != nil {
		c.logger.Error("failed to load marketplace listings", "error", err)
	}
	return err
}

// View derives the display model for the given search term and category
// selection. Category options always come from the base set, not the
// filtered one.
func (c *MarketplaceController) View(searchTerm, category string) MarketplaceView {
	state := c.loader.get()

	view := MarketplaceView{
		Status:   state.Status,
		Error:    state.Error,
		Filtered: searchTerm != "" || category != "",
	}
	if state.Status != StatusSuccess {
		return view
	}

	base := state.Data
	view.Total = len(base)
	view.Categories = distinctCategories(base)
	view.Listings = filterListings(base, searchTerm, category)
	view.Shown = len(view.Listings)
	return view
}

// filterListings applies the client-side filter: case-insensitive
// substring match on name or description, and exact category match when a
// category is selected.
func filterListings(base []domain.Business, searchTerm, category string) []domain.Business {
	term := strings.ToLower(searchTerm)
	out := make([]domain.Business, 0, len(base))
	for _, b := range base {
		if term != "" &&
			!strings.Contains(strings.ToLower(b.Name), term) &&
			!strings.Contains(strings.ToLower(b.Description), term) {
			continue
		}
		if category != "" && b.Category != category {
			continue
		}
		out = append(out, b)
	}
	return out
}

// distinctCategories returns the set of categories present in the base
// set, in a stable sorted order.
func distinctCategories(base []domain.Business) []string {
	seen := make(map[string]struct{}, len(base))
	var out []string
	for _, b := range base {
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		out = append(out, b.Category)
	}
	sort.Strings(out)
	return out
}
