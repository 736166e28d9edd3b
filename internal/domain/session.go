package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProfileRole defines the account type chosen at sign-up.
type ProfileRole string

const (
	RoleOwner  ProfileRole = "owner"
	RoleAgent  ProfileRole = "agent"
	RoleViewer ProfileRole = "viewer"
)

// Valid reports whether the role is one of the known account types.
func (r ProfileRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAgent, RoleViewer:
		return true
	}
	return false
}

// Profile is the public-facing part of an account, stored in the
// "profiles" collection keyed by the auth identity.
type Profile struct {
	ID       uuid.UUID   `json:"id"`
	FullName string      `json:"full_name"`
	Role     ProfileRole `json:"role"`
}

// DisplayName returns the profile's full name, falling back to the given
// email when the profile record has none.
func (p Profile) DisplayName(email string) string {
	if p.FullName != "" {
		return p.FullName
	}
	return email
}

// Session is the authenticated identity and role context. Exactly one
// session is active at a time, or none.
type Session struct {
	Identity     uuid.UUID `json:"identity"`
	Email        string    `json:"email"`
	Profile      Profile   `json:"profile"`
	AccessToken  string    `json:"-"` // Never exposed in view-models
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionPhase is the resolution state of the session store.
type SessionPhase string

const (
	// PhaseResolving means the stored token has not been resolved yet.
	// Entered once at process start and on token refresh, never re-entered
	// otherwise.
	PhaseResolving     SessionPhase = "resolving"
	PhaseAuthenticated SessionPhase = "authenticated"
	PhaseAnonymous     SessionPhase = "anonymous"
)

// SessionState is the subscribable current-session value: the phase plus
// the session when authenticated.
type SessionState struct {
	Phase   SessionPhase `json:"phase"`
	Session *Session     `json:"session,omitempty"`
}
