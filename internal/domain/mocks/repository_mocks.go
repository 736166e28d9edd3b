package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goonline/platform/internal/domain"
)

// MockBusinessRepository is a mock implementation of domain.BusinessRepository
// for testing.
type MockBusinessRepository struct {
	mu         sync.Mutex
	ListResult []domain.Business
	ListErr    error
	ListCalls  []domain.BusinessFilter

	// ListFn, when set, overrides the canned List behavior. Tests use it
	// to control per-call timing and results.
	ListFn func(ctx context.Context, filter domain.BusinessFilter) ([]domain.Business, error)

	InsertErr  error
	Inserted   []domain.Business
	UpdateErr  error
	Updated    []domain.Business
	DeleteErr  error
	DeletedIDs []uuid.UUID
}

func (m *MockBusinessRepository) List(ctx context.Context, filter domain.BusinessFilter) ([]domain.Business, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, filter)
	fn := m.ListFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListResult, nil
}

func (m *MockBusinessRepository) Insert(ctx context.Context, ownerID uuid.UUID, draft domain.BusinessDraft) (*domain.Business, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	b := domain.Business{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         draft.Name,
		Category:     draft.Category,
		Description:  draft.Description,
		Location:     draft.Location,
		LogoURL:      draft.LogoURL,
		ContactEmail: draft.ContactEmail,
		ContactPhone: draft.ContactPhone,
		Status:       domain.StatusPending,
	}
	m.Inserted = append(m.Inserted, b)
	return &b, nil
}

func (m *MockBusinessRepository) Update(ctx context.Context, id uuid.UUID, draft domain.BusinessDraft) (*domain.Business, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	b := domain.Business{ID: id, Name: draft.Name, Category: draft.Category, Description: draft.Description}
	m.Updated = append(m.Updated, b)
	return &b, nil
}

func (m *MockBusinessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeletedIDs = append(m.DeletedIDs, id)
	return nil
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository.
type MockProfileRepository struct {
	mu       sync.Mutex
	Profiles map[uuid.UUID]domain.Profile
	FindErr  error
	StoreErr error
	Stored   []domain.Profile
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	p, ok := m.Profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *MockProfileRepository) Store(ctx context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return m.StoreErr
	}
	if m.Profiles == nil {
		m.Profiles = make(map[uuid.UUID]domain.Profile)
	}
	m.Profiles[p.ID] = *p
	m.Stored = append(m.Stored, *p)
	return nil
}

// MockAuthenticator is a mock implementation of domain.Authenticator.
type MockAuthenticator struct {
	mu            sync.Mutex
	CreateResult  *domain.Session
	CreateErr     error
	AuthResult    *domain.Session
	AuthErr       error
	InvalidateErr error
	Invalidated   []string
	CurrentResult *domain.Session
	CurrentErr    error
}

func (m *MockAuthenticator) CreateAccount(ctx context.Context, email, password string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.CreateResult != nil {
		return m.CreateResult, nil
	}
	return &domain.Session{Identity: uuid.New(), Email: email, AccessToken: "mock-token"}, nil
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AuthErr != nil {
		return nil, m.AuthErr
	}
	if m.AuthResult != nil {
		return m.AuthResult, nil
	}
	return &domain.Session{Identity: uuid.New(), Email: email, AccessToken: "mock-token"}, nil
}

func (m *MockAuthenticator) Invalidate(ctx context.Context, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, accessToken)
	return m.InvalidateErr
}

func (m *MockAuthenticator) CurrentUser(ctx context.Context, accessToken string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CurrentErr != nil {
		return nil, m.CurrentErr
	}
	return m.CurrentResult, nil
}
