package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/goonline/platform/internal/domain"
	"github.com/goonline/platform/internal/usecase"
)

// Gate is the access gate evaluated before every protected handler. An
// anonymous session is redirected to sign-in; a still-resolving session
// gets a transient retry response instead of a premature redirect.
func Gate(sessions *usecase.SessionService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := sessions.Current()

			switch state.Phase {
			case domain.PhaseAuthenticated:
				next.ServeHTTP(w, r)
			case domain.PhaseResolving:
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "resolving",
				})
			default:
				logger.Debug("unauthenticated request blocked", "path", r.URL.Path)
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"error":    "sign in required",
					"redirect": "/auth/signin",
				})
			}
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
