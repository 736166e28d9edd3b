package usecase

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/goonline/platform/internal/domain"
	"github.com/goonline/platform/internal/domain/mocks"
)

func TestAnalyticsView(t *testing.T) {
	t.Run("Derives Stats From Snapshot", func(t *testing.T) {
		mine := uuid.New()
		sessions := authenticatedSessions(t, mine)

		repo := &mocks.MockBusinessRepository{ListResult: []domain.Business{
			{ID: uuid.New(), OwnerID: mine, Category: "food", Status: domain.StatusActive},
			{ID: uuid.New(), OwnerID: uuid.New(), Category: "food", Status: domain.StatusActive},
			{ID: uuid.New(), OwnerID: uuid.New(), Category: "retail", Status: domain.StatusPending},
		}}
		c := NewAnalyticsController(repo, sessions, discardLogger(), nil)

		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
		view := c.View()

		want := domain.PlatformStats{Total: 3, Active: 2, Pending: 1, Mine: 1}
		if view.Stats != want {
			t.Errorf("stats: got %+v, want %+v", view.Stats, want)
		}
		wantCats := []domain.CategoryCount{{Name: "food", Count: 2}, {Name: "retail", Count: 1}}
		if !reflect.DeepEqual(view.CategoryData, wantCats) {
			t.Errorf("category data: got %+v, want %+v", view.CategoryData, wantCats)
		}
		if view.MostPopularCategory != "food" {
			t.Errorf("most popular: got %q, want food", view.MostPopularCategory)
		}
		if got := view.ApprovalRate; got != 2.0/3.0 {
			t.Errorf("approval rate: got %v", got)
		}
	})

	t.Run("Reads The Full Collection", func(t *testing.T) {
		repo := &mocks.MockBusinessRepository{}
		c := NewAnalyticsController(repo, authenticatedSessions(t, uuid.New()), discardLogger(), nil)

		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(repo.ListCalls) != 1 {
			t.Fatalf("expected one list call, got %d", len(repo.ListCalls))
		}
		if got := repo.ListCalls[0]; got != (domain.BusinessFilter{}) {
			t.Fatalf("expected an unfiltered list, got %+v", got)
		}
	})

	t.Run("Empty Collection Yields Zero Rate", func(t *testing.T) {
		c := NewAnalyticsController(&mocks.MockBusinessRepository{}, authenticatedSessions(t, uuid.New()), discardLogger(), nil)

		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
		view := c.View()

		if view.ApprovalRate != 0 {
			t.Errorf("approval rate on empty set: got %v, want 0", view.ApprovalRate)
		}
		if view.MostPopularCategory != "" {
			t.Errorf("most popular on empty set: got %q", view.MostPopularCategory)
		}
	})

	t.Run("Category Counts Sum To Total", func(t *testing.T) {
		repo := &mocks.MockBusinessRepository{ListResult: []domain.Business{
			{ID: uuid.New(), Category: "food", Status: domain.StatusActive},
			{ID: uuid.New(), Category: "retail", Status: domain.StatusSuspended},
			{ID: uuid.New(), Category: "retail", Status: domain.StatusPending},
			{ID: uuid.New(), Category: "services", Status: domain.StatusActive},
		}}
		c := NewAnalyticsController(repo, authenticatedSessions(t, uuid.New()), discardLogger(), nil)

		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
		view := c.View()

		sum := 0
		for _, cat := range view.CategoryData {
			sum += cat.Count
		}
		if sum != view.Stats.Total {
			t.Errorf("category counts sum to %d, total is %d", sum, view.Stats.Total)
		}
	})

	t.Run("Popularity Ties Break On First Encountered", func(t *testing.T) {
		repo := &mocks.MockBusinessRepository{ListResult: []domain.Business{
			{ID: uuid.New(), Category: "retail", Status: domain.StatusActive},
			{ID: uuid.New(), Category: "food", Status: domain.StatusActive},
			{ID: uuid.New(), Category: "food", Status: domain.StatusActive},
			{ID: uuid.New(), Category: "retail", Status: domain.StatusActive},
		}}
		c := NewAnalyticsController(repo, authenticatedSessions(t, uuid.New()), discardLogger(), nil)

		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
		if got := c.View().MostPopularCategory; got != "retail" {
			t.Errorf("tie-break: got %q, want retail", got)
		}
	})

	t.Run("Load Failure Reports Error Status", func(t *testing.T) {
		repo := &mocks.MockBusinessRepository{ListErr: domain.ErrForbidden}
		c := NewAnalyticsController(repo, authenticatedSessions(t, uuid.New()), discardLogger(), nil)

		if err := c.Load(context.Background()); err == nil {
			t.Fatal("expected an error")
		}
		view := c.View()
		if view.Status != StatusError {
			t.Fatalf("expected error status, got %s", view.Status)
		}
		if view.Stats.Total != 0 || view.CategoryData != nil {
			t.Fatal("failed load must not derive stats")
		}
	})
}
