package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goonline/platform/internal/adapter/metrics"
	"github.com/goonline/platform/internal/domain"
)

// AnalyticsController owns the platform-stats view. The base set is the
// whole businesses collection, unfiltered, for every authenticated user;
// the original design reads it that way regardless of role, and that
// behavior is preserved here.
type AnalyticsController struct {
	repo     domain.BusinessRepository
	sessions *SessionService
	logger   *slog.Logger
	metrics  *metrics.ViewMetrics
	loader   *loader[[]domain.Business]
}

// NewAnalyticsController creates an idle analytics controller.
func NewAnalyticsController(repo domain.BusinessRepository, sessions *SessionService, logger *slog.Logger, m *metrics.ViewMetrics) *AnalyticsController {
	return &AnalyticsController{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		metrics:  m,
		loader:   newLoader[[]domain.Business](),
	}
}

// AnalyticsView is the read-only view-model exposed to the rendering layer.
// Everything in it is derived from the loaded snapshot; nothing is
// persisted or cached across loads.
type AnalyticsView struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`

	Stats               domain.PlatformStats   `json:"stats"`
	CategoryData        []domain.CategoryCount `json:"category_data"`
	ApprovalRate        float64                `json:"approval_rate"`
	MostPopularCategory string                 `json:"most_popular_category,omitempty"`
}

// Load fetches the full collection. Concurrent loads resolve
// last-triggered-wins.
func (c *AnalyticsController) Load(ctx context.Context) error {
	seq := c.loader.begin()
	start := time.Now()

	listings, err := c.repo.List(ctx, domain.BusinessFilter{})

	applied := c.loader.complete(seq, listings, err)
	observeLoad(c.metrics, "analytics", start, err, applied)
	if err != nil {
		c.logger.Error("failed to load analytics data", "error", err)
	}
	return err
}

// View derives the stats for the current identity.
func (c *AnalyticsController) View() AnalyticsView {
	state := c.loader.get()

	view := AnalyticsView{Status: state.Status, Error: state.Error}
	if state.Status != StatusSuccess {
		return view
	}

	var identity uuid.UUID
	if s := c.sessions.Current().Session; s != nil {
		identity = s.Identity
	}

	view.Stats = foldStats(state.Data, identity)
	view.CategoryData = groupByCategory(state.Data)
	view.ApprovalRate = view.Stats.ApprovalRate()
	view.MostPopularCategory = mostPopular(view.CategoryData)
	return view
}

// foldStats is a single pass over the snapshot.
func foldStats(listings []domain.Business, identity uuid.UUID) domain.PlatformStats {
	var stats domain.PlatformStats
	stats.Total = len(listings)
	for _, b := range listings {
		switch b.Status {
		case domain.StatusActive:
			stats.Active++
		case domain.StatusPending:
			stats.Pending++
		}
		if identity != uuid.Nil && b.OwnerID == identity {
			stats.Mine++
		}
	}
	return stats
}

// groupByCategory counts listings per category, keeping first-encountered
// order so tie-breaking downstream is deterministic.
func groupByCategory(listings []domain.Business) []domain.CategoryCount {
	index := make(map[string]int, len(listings))
	var out []domain.CategoryCount
	for _, b := range listings {
		i, ok := index[b.Category]
		if !ok {
			i = len(out)
			index[b.Category] = i
			out = append(out, domain.CategoryCount{Name: b.Category})
		}
		out[i].Count++
	}
	return out
}

// mostPopular is the argmax over the grouping, ties broken by first
// encountered.
func mostPopular(counts []domain.CategoryCount) string {
	var (
		best     string
		bestSeen int
	)
	for _, c := range counts {
		if c.Count > bestSeen {
			best = c.Name
			bestSeen = c.Count
		}
	}
	return best
}
