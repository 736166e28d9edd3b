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

const profileTable = "profiles"

type profileRow struct {
	ID       uuid.UUID          `json:"id"`
	FullName string             `json:"full_name"`
	Role     domain.ProfileRole `json:"role"`
}

// ProfileRepository implements domain.ProfileRepository over the hosted
// data API. The collection is keyed by the auth identity.
type ProfileRepository struct {
	client *Client
}

// NewProfileRepository creates a repository for the profiles collection.
func NewProfileRepository(c *Client) *ProfileRepository {
	return &ProfileRepository{client: c}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := url.Values{}
	query.Set("select", "id,full_name,role")
	query.Set("id", "eq."+id.String())

	data, err := r.client.Rest(ctx, http.MethodGet, profileTable, query, nil, "")
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	var rows []profileRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}

	return &domain.Profile{ID: rows[0].ID, FullName: rows[0].FullName, Role: rows[0].Role}, nil
}

func (r *ProfileRepository) Store(ctx context.Context, p *domain.Profile) error {
	row := profileRow{ID: p.ID, FullName: p.FullName, Role: p.Role}

	// Upsert keeps sign-up idempotent when a profile row already exists
	// for the identity.
	_, err := r.client.Rest(ctx, http.MethodPost, profileTable, nil, row, "resolution=merge-duplicates,return=minimal")
	if err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}
