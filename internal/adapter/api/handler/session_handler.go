package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goonline/platform/internal/usecase"
)

// SessionHandler exposes the current session view-model and a server-sent
// event stream of session changes for the rendering layer's reactive
// subscription.
type SessionHandler struct {
	sessions *usecase.SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions *usecase.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// Current handles GET /session.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessions.Current())
}

// Events handles GET /session/events: an SSE stream that emits the current
// session state immediately and again on every change.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	states, cancel := h.sessions.Subscribe()
	defer cancel()
	h.logger.Debug("session subscriber connected", "remote_addr", r.RemoteAddr)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("session subscriber disconnected", "remote_addr", r.RemoteAddr)
			return
		case state, ok := <-states:
			if !ok {
				return
			}
			payload, err := json.Marshal(state)
			if err != nil {
				h.logger.Error("failed to encode session state", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
