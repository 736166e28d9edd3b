package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/goonline/platform/internal/domain"
)

func newProfileMock(t *testing.T) (*ProfileRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewProfileRepository(db), mock
}

func TestProfileFindByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mock := newProfileMock(t)
		id := uuid.New()

		mock.ExpectQuery(`SELECT id, COALESCE\(full_name, ''\), role FROM profiles WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "role"}).AddRow(id, "Ann", "agent"))

		p, err := repo.FindByID(context.Background(), id)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if p.Role != domain.RoleAgent {
			t.Errorf("expected agent role, got %s", p.Role)
		}
	})

	t.Run("Missing Row", func(t *testing.T) {
		repo, mock := newProfileMock(t)
		id := uuid.New()

		mock.ExpectQuery(`SELECT id, COALESCE\(full_name, ''\), role FROM profiles`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "role"}))

		_, err := repo.FindByID(context.Background(), id)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestProfileStoreUpserts(t *testing.T) {
	repo, mock := newProfileMock(t)
	id := uuid.New()

	mock.ExpectExec(`INSERT INTO profiles .+ ON CONFLICT \(id\) DO UPDATE`).
		WithArgs(id, "Ann", "owner").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Store(context.Background(), &domain.Profile{ID: id, FullName: "Ann", Role: domain.RoleOwner})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
