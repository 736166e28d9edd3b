package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/goonline/platform/internal/domain"
)

const businessTable = "businesses"

// businessRow is the wire shape of a row in the businesses collection.
// Remote rows are coerced into domain.Business here, at the boundary, so
// nothing deeper assumes untyped JSON.
type businessRow struct {
	ID           uuid.UUID             `json:"id"`
	OwnerID      uuid.UUID             `json:"owner_id"`
	Name         string                `json:"name"`
	Category     string                `json:"category"`
	Description  string                `json:"description"`
	Location     string                `json:"location"`
	Status       domain.BusinessStatus `json:"status"`
	LogoURL      string                `json:"logo_url"`
	ContactEmail string                `json:"contact_email"`
	ContactPhone string                `json:"contact_phone"`
	CreatedAt    jsonTime              `json:"created_at"`

	// Embedded one-to-one owner profile, present only when the query
	// selected the enrichment.
	Profiles *struct {
		FullName string `json:"full_name"`
	} `json:"profiles,omitempty"`
}

func (r businessRow) toDomain() domain.Business {
	b := domain.Business{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		Name:         r.Name,
		Category:     r.Category,
		Description:  r.Description,
		Location:     r.Location,
		Status:       r.Status,
		LogoURL:      r.LogoURL,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		CreatedAt:    r.CreatedAt.Time,
	}
	if r.Profiles != nil {
		b.OwnerName = r.Profiles.FullName
	}
	return b
}

// BusinessRepository implements domain.BusinessRepository over the hosted
// data API. Row-level authorization is enforced remotely.
type BusinessRepository struct {
	client *Client
}

// NewBusinessRepository creates a repository for the businesses collection.
func NewBusinessRepository(c *Client) *BusinessRepository {
	return &BusinessRepository{client: c}
}

// List returns all rows matching the filter, newest first.
func (r *BusinessRepository) List(ctx context.Context, filter domain.BusinessFilter) ([]domain.Business, error) {
	query := url.Values{}
	if filter.IncludeOwner {
		query.Set("select", "*,profiles(full_name)")
	} else {
		query.Set("select", "*")
	}
	if filter.Status != "" {
		query.Set("status", "eq."+string(filter.Status))
	}
	if filter.OwnerID != uuid.Nil {
		query.Set("owner_id", "eq."+filter.OwnerID.String())
	}
	query.Set("order", "created_at.desc")

	data, err := r.client.Rest(ctx, http.MethodGet, businessTable, query, nil, "")
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}

	var rows []businessRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode businesses: %w", err)
	}

	out := make([]domain.Business, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// Insert creates a listing. The store assigns id, created_at, and the
// initial pending status; the draft never carries them.
func (r *BusinessRepository) Insert(ctx context.Context, ownerID uuid.UUID, draft domain.BusinessDraft) (*domain.Business, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	// id, created_at, and status stay server-assigned: the insert payload
	// never mentions them.
	row := map[string]string{
		"owner_id":      ownerID.String(),
		"name":          draft.Name,
		"category":      draft.Category,
		"description":   draft.Description,
		"location":      draft.Location,
		"logo_url":      draft.LogoURL,
		"contact_email": draft.ContactEmail,
		"contact_phone": draft.ContactPhone,
	}

	data, err := r.client.Rest(ctx, http.MethodPost, businessTable, nil, row, "return=representation")
	if err != nil {
		return nil, fmt.Errorf("insert business: %w", err)
	}
	return singleRow(data)
}

// Update patches the client-settable fields only; owner_id and status are
// never forwarded.
func (r *BusinessRepository) Update(ctx context.Context, id uuid.UUID, draft domain.BusinessDraft) (*domain.Business, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	patch := map[string]string{
		"name":          draft.Name,
		"category":      draft.Category,
		"description":   draft.Description,
		"location":      draft.Location,
		"logo_url":      draft.LogoURL,
		"contact_email": draft.ContactEmail,
		"contact_phone": draft.ContactPhone,
	}

	query := url.Values{}
	query.Set("id", "eq."+id.String())

	data, err := r.client.Rest(ctx, http.MethodPatch, businessTable, query, patch, "return=representation")
	if err != nil {
		return nil, fmt.Errorf("update business: %w", err)
	}
	return singleRow(data)
}

// Delete removes a listing. A delete that matches no rows (already gone,
// or hidden by row-level security) reports ErrNotFound.
func (r *BusinessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := url.Values{}
	query.Set("id", "eq."+id.String())

	data, err := r.client.Rest(ctx, http.MethodDelete, businessTable, query, nil, "return=representation")
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}

	var rows []businessRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("decode delete response: %w", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// singleRow decodes a return=representation response that must contain
// exactly the affected row. An empty set means the id matched nothing
// visible to the caller.
func singleRow(data []byte) (*domain.Business, error) {
	var rows []businessRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode business: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	b := rows[0].toDomain()
	return &b, nil
}
