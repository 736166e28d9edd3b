package domain

import (
	"context"

	"github.com/google/uuid"
)

// BusinessFilter is a conjunction of equality constraints applied by the
// external store. Zero values mean "any". Results are always ordered by
// created_at descending and returned whole; there is no pagination.
type BusinessFilter struct {
	Status  BusinessStatus
	OwnerID uuid.UUID

	// IncludeOwner requests the one-to-one owner display-name enrichment.
	// Only the marketplace view sets this; owner-scoped views never do.
	IncludeOwner bool
}

// BusinessRepository defines the gateway contract over the "businesses"
// collection. Implementations wrap the external data service (hosted
// PostgREST or a direct Postgres connection); they never enforce
// authorization locally.
type BusinessRepository interface {
	// List returns all rows matching the filter in one response.
	List(ctx context.Context, filter BusinessFilter) ([]Business, error)

	// Insert creates a listing for the given owner. The store assigns ID,
	// CreatedAt, and the initial pending status.
	Insert(ctx context.Context, ownerID uuid.UUID, draft BusinessDraft) (*Business, error)

	// Update patches the client-settable fields of a listing. Returns
	// ErrNotFound for a nonexistent id and ErrForbidden when the store
	// rejects the caller.
	Update(ctx context.Context, id uuid.UUID, draft BusinessDraft) (*Business, error)

	// Delete removes a listing. Deleting an id that is already gone
	// returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileRepository defines read/write access to the "profiles" collection.
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Store(ctx context.Context, p *Profile) error
}

// Authenticator defines the contract consumed from the external auth
// collaborator. Password hashing, token issuance, and credential storage
// all live behind it.
type Authenticator interface {
	// CreateAccount registers a new identity and returns its session.
	CreateAccount(ctx context.Context, email, password string) (*Session, error)

	// Authenticate resolves a session from stored credentials.
	Authenticate(ctx context.Context, email, password string) (*Session, error)

	// Invalidate revokes the session remotely. Best effort: callers treat
	// failures as non-fatal.
	Invalidate(ctx context.Context, accessToken string) error

	// CurrentUser resolves the identity behind a previously issued token.
	CurrentUser(ctx context.Context, accessToken string) (*Session, error)
}
