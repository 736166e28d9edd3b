package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goonline/platform/internal/domain"
)

// ProfileRepository implements domain.ProfileRepository against a direct
// Postgres connection.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a Postgres-backed profiles repository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `SELECT id, COALESCE(full_name, ''), role FROM profiles WHERE id = $1`

	var p domain.Profile
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.FullName, &p.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", mapError(err))
	}
	return &p, nil
}

func (r *ProfileRepository) Store(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, role = EXCLUDED.role
	`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.FullName, p.Role)
	if err != nil {
		return fmt.Errorf("store profile: %w", mapError(err))
	}
	return nil
}
