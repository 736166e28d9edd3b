package domain

import (
	"time"

	"github.com/google/uuid"
)

// BusinessStatus is the moderation state of a listing. Transitions are
// owner-opaque: the owning client never sets status after creation.
type BusinessStatus string

const (
	StatusPending   BusinessStatus = "pending"
	StatusActive    BusinessStatus = "active"
	StatusSuspended BusinessStatus = "suspended"
)

// Business is a single listing in the marketplace. Instances are owned by
// the external store and held only as immutable snapshots; OwnerID never
// changes after creation and ID is the sole identity.
type Business struct {
	ID           uuid.UUID      `json:"id"`
	OwnerID      uuid.UUID      `json:"owner_id"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Description  string         `json:"description,omitempty"`
	Location     string         `json:"location,omitempty"`
	Status       BusinessStatus `json:"status"`
	LogoURL      string         `json:"logo_url,omitempty"`
	ContactEmail string         `json:"contact_email,omitempty"`
	ContactPhone string         `json:"contact_phone,omitempty"`
	OwnerName    string         `json:"owner_name,omitempty"` // Read-side enrichment, marketplace only
	CreatedAt    time.Time      `json:"created_at"`
}

// BusinessDraft carries the client-settable fields for create and update.
// OwnerID and Status are assigned server-side; the patch built from a
// draft must never forward them.
type BusinessDraft struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Description  string `json:"description,omitempty"`
	Location     string `json:"location,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

// Validate checks the required draft fields before any remote call.
func (d BusinessDraft) Validate() error {
	var missing []string
	if d.Name == "" {
		missing = append(missing, "name")
	}
	if d.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// CategoryCount is a derived category→count aggregate, recomputed on every
// load and never persisted.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PlatformStats is a pure fold over a loaded listing snapshot.
type PlatformStats struct {
	Total   int `json:"total_businesses"`
	Active  int `json:"active_businesses"`
	Pending int `json:"pending_businesses"`
	Mine    int `json:"my_businesses"`
}

// ApprovalRate is Active/Total in [0,1], and 0 when the collection is empty.
func (s PlatformStats) ApprovalRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Active) / float64(s.Total)
}
