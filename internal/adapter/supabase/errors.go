package supabase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goonline/platform/internal/domain"
)

// postgrestError is the error shape returned by the data API.
type postgrestError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// gotrueError is the error shape returned by the auth API, which has used
// several field names across versions.
type gotrueError struct {
	Message   string `json:"message"`
	Msg       string `json:"msg"`
	ErrorDesc string `json:"error_description"`
	ErrorCode string `json:"error_code"`
}

func (e gotrueError) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDesc} {
		if s != "" {
			return s
		}
	}
	return ""
}

// restError maps a failed data request to the domain taxonomy.
func restError(status int, body []byte) error {
	var pe postgrestError
	_ = json.Unmarshal(body, &pe)

	switch {
	case status == http.StatusNotFound, pe.Code == "PGRST116":
		return domain.ErrNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden, pe.Code == "42501":
		return domain.ErrForbidden
	}
	if pe.Message != "" {
		return fmt.Errorf("data service: %s (status %d)", pe.Message, status)
	}
	return fmt.Errorf("data service: status %d", status)
}

// authError maps a failed auth request to the domain taxonomy.
func authError(status int, body []byte) error {
	var ge gotrueError
	_ = json.Unmarshal(body, &ge)
	msg := strings.ToLower(ge.text())

	switch {
	case ge.ErrorCode == "user_already_exists", strings.Contains(msg, "already registered"), strings.Contains(msg, "already exists"):
		return domain.ErrDuplicateEmail
	case ge.ErrorCode == "weak_password", strings.Contains(msg, "password"):
		return domain.ErrWeakPassword
	case status == http.StatusBadRequest, status == http.StatusUnauthorized:
		return domain.ErrInvalidCredentials
	}
	if m := ge.text(); m != "" {
		return fmt.Errorf("auth service: %s (status %d)", m, status)
	}
	return fmt.Errorf("auth service: status %d", status)
}
