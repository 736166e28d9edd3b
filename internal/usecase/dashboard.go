package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goonline/platform/internal/adapter/metrics"
	"github.com/goonline/platform/internal/domain"
)

// ErrNoSession is returned when an owner-scoped operation runs without an
// authenticated session. The access gate normally prevents this.
var ErrNoSession = errors.New("no authenticated session")

// DashboardController owns the "my businesses" view: listings scoped to
// the current identity, plus the create, update, and confirmed-delete
// intents.
type DashboardController struct {
	repo     domain.BusinessRepository
	sessions *SessionService
	logger   *slog.Logger
	metrics  *metrics.ViewMetrics
	loader   *loader[[]domain.Business]
}

// NewDashboardController creates an idle dashboard controller.
func NewDashboardController(repo domain.BusinessRepository, sessions *SessionService, logger *slog.Logger, m *metrics.ViewMetrics) *DashboardController {
	return &DashboardController{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		metrics:  m,
		loader:   newLoader[[]domain.Business](),
	}
}

// DashboardView is the read-only view-model exposed to the rendering layer.
type DashboardView struct {
	Status   Status            `json:"status"`
	Error    string            `json:"error,omitempty"`
	Listings []domain.Business `json:"listings"`
	Empty    bool              `json:"empty"`
}

// Load fetches the listings owned by the current identity, newest first.
// Concurrent loads resolve last-triggered-wins.
func (c *DashboardController) Load(ctx context.Context) error {
	identity, err := c.identity()
	if err != nil {
		return err
	}

	seq := c.loader.begin()
	start := time.Now()

	listings, err := c.repo.List(ctx, domain.BusinessFilter{OwnerID: identity})

	applied := c.loader.complete(seq, listings, err)
	observeLoad(c.metrics, "dashboard", start, err, applied)
	if err != nil {
		c.logger.Error("failed to load owned listings", "error", err)
	}
	return err
}

// View returns the current display model.
func (c *DashboardController) View() DashboardView {
	state := c.loader.get()
	return DashboardView{
		Status:   state.Status,
		Error:    state.Error,
		Listings: state.Data,
		Empty:    state.Status == StatusSuccess && len(state.Data) == 0,
	}
}

// Create submits a new listing draft. The created listing enters the
// pending status and is prepended to the local snapshot, matching the
// newest-first ordering.
func (c *DashboardController) Create(ctx context.Context, draft domain.BusinessDraft) (*domain.Business, error) {
	identity, err := c.identity()
	if err != nil {
		return nil, err
	}

	created, err := c.repo.Insert(ctx, identity, draft)
	c.countMutation("create", err)
	if err != nil {
		return nil, err
	}

	c.loader.mutate(func(listings []domain.Business) []domain.Business {
		return append([]domain.Business{*created}, listings...)
	})
	return created, nil
}

// Update patches an owned listing. Ownership and status stay untouched;
// the remote store rejects callers the row does not belong to.
func (c *DashboardController) Update(ctx context.Context, id uuid.UUID, draft domain.BusinessDraft) (*domain.Business, error) {
	if _, err := c.identity(); err != nil {
		return nil, err
	}

	updated, err := c.repo.Update(ctx, id, draft)
	c.countMutation("update", err)
	if err != nil {
		return nil, err
	}

	// Snapshots are immutable once fetched: edits always produce a fresh
	// slice, never a write through the loaded backing array.
	c.loader.mutate(func(listings []domain.Business) []domain.Business {
		out := make([]domain.Business, len(listings))
		copy(out, listings)
		for i := range out {
			if out[i].ID == id {
				out[i] = *updated
			}
		}
		return out
	})
	return updated, nil
}

// Delete removes a confirmed listing. On success the item is removed from
// the local snapshot by id, without a re-fetch; on failure the snapshot is
// left unchanged. A not-found result for an id still present in the
// snapshot means the same confirmed action already went through remotely
// and counts as satisfied; not-found for an id the view never held
// surfaces as an error.
func (c *DashboardController) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := c.identity(); err != nil {
		return err
	}

	err := c.repo.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) || !c.holds(id) {
			c.countMutation("delete", err)
			c.logger.Error("failed to delete listing", "id", id, "error", err)
			return err
		}
		c.logger.Debug("listing already deleted", "id", id)
	}
	c.countMutation("delete", nil)

	c.loader.mutate(func(listings []domain.Business) []domain.Business {
		out := make([]domain.Business, 0, len(listings))
		for _, b := range listings {
			if b.ID != id {
				out = append(out, b)
			}
		}
		return out
	})
	return nil
}

// holds reports whether the loaded snapshot contains the id.
func (c *DashboardController) holds(id uuid.UUID) bool {
	for _, b := range c.loader.get().Data {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (c *DashboardController) identity() (uuid.UUID, error) {
	state := c.sessions.Current()
	if state.Phase != domain.PhaseAuthenticated || state.Session == nil {
		return uuid.Nil, ErrNoSession
	}
	return state.Session.Identity, nil
}

func (c *DashboardController) countMutation(op string, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.MutationsTotal.WithLabelValues(op, outcome).Inc()
}
