package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goonline/platform/internal/domain"
	"github.com/goonline/platform/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses. The body
// carries the message inline so forms can render it in place.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError

	status := http.StatusBadGateway // transport/unexpected upstream failure
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrWeakPassword):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, usecase.ErrNoSession):
		status = http.StatusUnauthorized
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
