package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/goonline/platform/internal/domain"
)

// BusinessRepository implements domain.BusinessRepository against a direct
// Postgres connection, for self-hosted deployments where the data service
// is reached without the REST layer. The same row-level security policies
// apply; this repository never enforces ownership itself.
type BusinessRepository struct {
	db *sql.DB
}

// NewBusinessRepository creates a Postgres-backed businesses repository.
func NewBusinessRepository(db *sql.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

const businessColumns = `b.id, b.owner_id, b.name, b.category,
	COALESCE(b.description, ''), COALESCE(b.location, ''), b.status,
	COALESCE(b.logo_url, ''), COALESCE(b.contact_email, ''),
	COALESCE(b.contact_phone, ''), b.created_at`

func (r *BusinessRepository) List(ctx context.Context, filter domain.BusinessFilter) ([]domain.Business, error) {
	var (
		sb     strings.Builder
		args   []any
		wheres []string
	)

	sb.WriteString("SELECT " + businessColumns)
	if filter.IncludeOwner {
		sb.WriteString(", COALESCE(p.full_name, '')")
	} else {
		sb.WriteString(", ''")
	}
	sb.WriteString(" FROM businesses b")
	if filter.IncludeOwner {
		sb.WriteString(" LEFT JOIN profiles p ON p.id = b.owner_id")
	}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		wheres = append(wheres, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if filter.OwnerID != uuid.Nil {
		args = append(args, filter.OwnerID)
		wheres = append(wheres, fmt.Sprintf("b.owner_id = $%d", len(args)))
	}
	if len(wheres) > 0 {
		sb.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	sb.WriteString(" ORDER BY b.created_at DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", mapError(err))
	}
	defer rows.Close()

	var out []domain.Business
	for rows.Next() {
		var b domain.Business
		err := rows.Scan(
			&b.ID,
			&b.OwnerID,
			&b.Name,
			&b.Category,
			&b.Description,
			&b.Location,
			&b.Status,
			&b.LogoURL,
			&b.ContactEmail,
			&b.ContactPhone,
			&b.CreatedAt,
			&b.OwnerName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list businesses: %w", mapError(err))
	}
	return out, nil
}

func (r *BusinessRepository) Insert(ctx context.Context, ownerID uuid.UUID, draft domain.BusinessDraft) (*domain.Business, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO businesses (owner_id, name, category, description, location, logo_url, contact_email, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + selfColumns()

	var b domain.Business
	err := r.db.QueryRowContext(ctx, query,
		ownerID,
		draft.Name,
		draft.Category,
		draft.Description,
		draft.Location,
		draft.LogoURL,
		draft.ContactEmail,
		draft.ContactPhone,
	).Scan(scanTargets(&b)...)
	if err != nil {
		return nil, fmt.Errorf("insert business: %w", mapError(err))
	}
	return &b, nil
}

func (r *BusinessRepository) Update(ctx context.Context, id uuid.UUID, draft domain.BusinessDraft) (*domain.Business, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	// owner_id and status are deliberately absent from the SET list.
	query := `
		UPDATE businesses
		SET name = $2, category = $3, description = $4, location = $5,
		    logo_url = $6, contact_email = $7, contact_phone = $8
		WHERE id = $1
		RETURNING ` + selfColumns()

	var b domain.Business
	err := r.db.QueryRowContext(ctx, query,
		id,
		draft.Name,
		draft.Category,
		draft.Description,
		draft.Location,
		draft.LogoURL,
		draft.ContactEmail,
		draft.ContactPhone,
	).Scan(scanTargets(&b)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update business: %w", mapError(err))
	}
	return &b, nil
}

func (r *BusinessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete business: %w", mapError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func selfColumns() string {
	return `id, owner_id, name, category, COALESCE(description, ''),
		COALESCE(location, ''), status, COALESCE(logo_url, ''),
		COALESCE(contact_email, ''), COALESCE(contact_phone, ''), created_at`
}

func scanTargets(b *domain.Business) []any {
	return []any{
		&b.ID,
		&b.OwnerID,
		&b.Name,
		&b.Category,
		&b.Description,
		&b.Location,
		&b.Status,
		&b.LogoURL,
		&b.ContactEmail,
		&b.ContactPhone,
		&b.CreatedAt,
	}
}

// mapError translates driver error codes into the domain taxonomy.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42501": // insufficient_privilege
			return domain.ErrForbidden
		case "23502": // not_null_violation
			return &domain.ValidationError{Fields: []string{pqErr.Column}}
		}
	}
	return err
}
