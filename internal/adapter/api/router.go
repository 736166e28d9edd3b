package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/goonline/platform/internal/adapter/api/handler"
	"github.com/goonline/platform/internal/adapter/api/middleware"
	"github.com/goonline/platform/internal/usecase"
)

// Controllers bundles the per-view controllers the router serves.
type Controllers struct {
	Sessions    *usecase.SessionService
	Marketplace *usecase.MarketplaceController
	Dashboard   *usecase.DashboardController
	Analytics   *usecase.AnalyticsController
}

// NewRouter creates and configures the HTTP router exposing each
// controller's view-model and intent handlers.
func NewRouter(c Controllers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging(logger))

	authHandler := handler.NewAuthHandler(c.Sessions, logger)
	sessionHandler := handler.NewSessionHandler(c.Sessions, logger)
	marketplaceHandler := handler.NewMarketplaceHandler(c.Marketplace, logger)
	dashboardHandler := handler.NewDashboardHandler(c.Dashboard, logger)
	analyticsHandler := handler.NewAnalyticsHandler(c.Analytics, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Post("/auth/signup", authHandler.SignUp)
	r.Post("/auth/signin", authHandler.SignIn)
	r.Get("/session", sessionHandler.Current)
	r.Get("/session/events", sessionHandler.Events)

	// Everything below passes the access gate.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Gate(c.Sessions, logger))

		r.Post("/auth/signout", authHandler.SignOut)
		r.Get("/marketplace", marketplaceHandler.Browse)
		r.Get("/dashboard", dashboardHandler.List)
		r.Post("/dashboard/businesses", dashboardHandler.Create)
		r.Put("/dashboard/businesses/{id}", dashboardHandler.Update)
		r.Delete("/dashboard/businesses/{id}", dashboardHandler.Delete)
		r.Get("/analytics", analyticsHandler.Stats)
	})

	return r
}
