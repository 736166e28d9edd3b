package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/goonline/platform/internal/domain"
	"github.com/goonline/platform/internal/usecase"
)

// AuthHandler exposes the sign-up, sign-in, and sign-out intents.
type AuthHandler struct {
	sessions *usecase.SessionService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(sessions *usecase.SessionService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

type signUpRequest struct {
	Email    string             `json:"email"`
	Password string             `json:"password"`
	FullName string             `json:"full_name"`
	Role     domain.ProfileRole `json:"role"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleOwner
	}

	if err := h.sessions.SignUp(r.Context(), req.Email, req.Password, req.FullName, req.Role); err != nil {
		h.logFailure("sign-up rejected", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.sessions.Current())
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	if err := h.sessions.SignIn(r.Context(), req.Email, req.Password); err != nil {
		h.logFailure("sign-in rejected", err)
		writeError(w, err)
		return
	}

	if s := h.sessions.Current().Session; s != nil {
		h.logger.Info("signed in", "user", s.Profile.DisplayName(s.Email))
	}
	writeJSON(w, http.StatusOK, h.sessions.Current())
}

// logFailure keeps expected auth rejections out of the error log.
func (h *AuthHandler) logFailure(msg string, err error) {
	if domain.IsAuthError(err) {
		h.logger.Debug(msg, "error", err)
		return
	}
	h.logger.Error(msg, "error", err)
}

// SignOut handles POST /auth/signout. The local clear always succeeds.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(r.Context())
	writeJSON(w, http.StatusOK, h.sessions.Current())
}
