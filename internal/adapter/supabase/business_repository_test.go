package supabase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goonline/platform/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{URL: srv.URL, AnonKey: "anon-key"}, testLogger())
	require.NoError(t, err)
	return c
}

func TestBusinessList(t *testing.T) {
	owner := uuid.New()

	var capturedQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/businesses", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		capturedQuery = r.URL.Query()
		w.Write([]byte(`[
			{"id":"` + uuid.NewString() + `","owner_id":"` + owner.String() + `","name":"Downtown Cafe","category":"food","status":"active","created_at":"2026-08-01T10:00:00Z","profiles":{"full_name":"Ann Owner"}}
		]`))
	})
	repo := NewBusinessRepository(client)

	listings, err := repo.List(context.Background(), domain.BusinessFilter{
		Status:       domain.StatusActive,
		IncludeOwner: true,
	})
	require.NoError(t, err)
	require.Len(t, listings, 1)

	assert.Equal(t, "Downtown Cafe", listings[0].Name)
	assert.Equal(t, "Ann Owner", listings[0].OwnerName)
	assert.Equal(t, domain.StatusActive, listings[0].Status)

	assert.Equal(t, []string{"*,profiles(full_name)"}, capturedQuery["select"])
	assert.Equal(t, []string{"eq.active"}, capturedQuery["status"])
	assert.Equal(t, []string{"created_at.desc"}, capturedQuery["order"])
	assert.NotContains(t, capturedQuery, "owner_id")
}

func TestBusinessListOwnerScoped(t *testing.T) {
	owner := uuid.New()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq."+owner.String(), r.URL.Query().Get("owner_id"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		w.Write([]byte(`[]`))
	})
	repo := NewBusinessRepository(client)

	listings, err := repo.List(context.Background(), domain.BusinessFilter{OwnerID: owner})
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestBusinessInsert(t *testing.T) {
	owner := uuid.New()
	created := uuid.New()

	var payload map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"` + created.String() + `","owner_id":"` + owner.String() + `","name":"Garage","category":"services","status":"pending","created_at":"2026-08-01T10:00:00Z"}]`))
	})
	repo := NewBusinessRepository(client)

	b, err := repo.Insert(context.Background(), owner, domain.BusinessDraft{
		Name:     "Garage",
		Category: "services",
	})
	require.NoError(t, err)

	assert.Equal(t, created, b.ID)
	assert.Equal(t, domain.StatusPending, b.Status)

	// The store assigns id, created_at, and status; the payload must not
	// try to set them.
	assert.NotContains(t, payload, "id")
	assert.NotContains(t, payload, "status")
	assert.NotContains(t, payload, "created_at")
	assert.Equal(t, owner.String(), payload["owner_id"])
	assert.Equal(t, "Garage", payload["name"])
}

func TestBusinessInsertRejectsInvalidDraft(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("an invalid draft must never reach the wire")
	})
	repo := NewBusinessRepository(client)

	_, err := repo.Insert(context.Background(), uuid.New(), domain.BusinessDraft{Name: "No Category"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "category")
}

func TestBusinessUpdate(t *testing.T) {
	id := uuid.New()

	var payload map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq."+id.String(), r.URL.Query().Get("id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Write([]byte(`[{"id":"` + id.String() + `","owner_id":"` + uuid.NewString() + `","name":"Renamed","category":"food","status":"active","created_at":"2026-08-01T10:00:00Z"}]`))
	})
	repo := NewBusinessRepository(client)

	b, err := repo.Update(context.Background(), id, domain.BusinessDraft{Name: "Renamed", Category: "food"})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", b.Name)
	assert.NotContains(t, payload, "owner_id")
	assert.NotContains(t, payload, "status")
}

func TestBusinessUpdateMissingRow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Row-level security hides foreign rows: the patch succeeds but
		// affects nothing.
		w.Write([]byte(`[]`))
	})
	repo := NewBusinessRepository(client)

	_, err := repo.Update(context.Background(), uuid.New(), domain.BusinessDraft{Name: "X", Category: "food"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBusinessDelete(t *testing.T) {
	t.Run("Affected Row", func(t *testing.T) {
		id := uuid.New()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "eq."+id.String(), r.URL.Query().Get("id"))
			assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
			w.Write([]byte(`[{"id":"` + id.String() + `","owner_id":"` + uuid.NewString() + `","name":"Gone","category":"food","status":"active","created_at":"2026-08-01T10:00:00Z"}]`))
		})

		err := NewBusinessRepository(client).Delete(context.Background(), id)
		assert.NoError(t, err)
	})

	t.Run("No Match Reports Not Found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})

		err := NewBusinessRepository(client).Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"Forbidden Status", http.StatusForbidden, `{"message":"permission denied"}`, domain.ErrForbidden},
		{"Unauthorized Status", http.StatusUnauthorized, `{}`, domain.ErrForbidden},
		{"RLS Code", http.StatusBadRequest, `{"code":"42501","message":"permission denied for table businesses"}`, domain.ErrForbidden},
		{"Missing Row Code", http.StatusNotAcceptable, `{"code":"PGRST116"}`, domain.ErrNotFound},
		{"Not Found Status", http.StatusNotFound, `{}`, domain.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := NewBusinessRepository(client).List(context.Background(), domain.BusinessFilter{})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTokenSource(t *testing.T) {
	var authHeader string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})
	repo := NewBusinessRepository(client)

	_, err := repo.List(context.Background(), domain.BusinessFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer anon-key", authHeader, "no session falls back to the anon key")

	client.SetTokenSource(func() string { return "session-jwt" })
	_, err = repo.List(context.Background(), domain.BusinessFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer session-jwt", authHeader)

	client.SetTokenSource(func() string { return "" })
	_, err = repo.List(context.Background(), domain.BusinessFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer anon-key", authHeader, "signed-out source falls back to the anon key")
}
