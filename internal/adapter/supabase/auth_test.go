package supabase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goonline/platform/internal/domain"
)

// unsignedToken builds a JWT-shaped token with the given expiry. The
// signature is junk; only the claims matter for expiry decoding.
func unsignedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims, err := json.Marshal(map[string]any{"exp": exp.Unix(), "sub": uuid.NewString()})
	require.NoError(t, err)
	return fmt.Sprintf("%s.%s.sig", header, base64.RawURLEncoding.EncodeToString(claims))
}

func TestAuthenticate(t *testing.T) {
	identity := uuid.New()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := unsignedToken(t, exp)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body["email"])

		w.Write([]byte(`{
			"access_token":"` + token + `",
			"refresh_token":"refresh-1",
			"expires_in":3600,
			"user":{"id":"` + identity.String() + `","email":"ann@example.com"}
		}`))
	})
	auth := NewAuthClient(client, testLogger())

	session, err := auth.Authenticate(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, identity, session.Identity)
	assert.Equal(t, "ann@example.com", session.Email)
	assert.Equal(t, token, session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshToken)
	assert.Equal(t, exp.Unix(), session.ExpiresAt.Unix())
}

func TestCreateAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		identity := uuid.New()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/signup", r.URL.Path)
			w.Write([]byte(`{
				"access_token":"opaque-token",
				"expires_in":3600,
				"user":{"id":"` + identity.String() + `","email":"new@example.com"}
			}`))
		})
		auth := NewAuthClient(client, testLogger())

		session, err := auth.CreateAccount(context.Background(), "new@example.com", "secret1")
		require.NoError(t, err)

		assert.Equal(t, identity, session.Identity)
		// An opaque token has no decodable expiry; expires_in covers it.
		assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error_code":"user_already_exists","msg":"User already registered"}`))
		})
		auth := NewAuthClient(client, testLogger())

		_, err := auth.CreateAccount(context.Background(), "taken@example.com", "secret1")
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("Weak Password", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error_code":"weak_password","msg":"Password should be at least 6 characters"}`))
		})
		auth := NewAuthClient(client, testLogger())

		_, err := auth.CreateAccount(context.Background(), "new@example.com", "abc")
		assert.ErrorIs(t, err, domain.ErrWeakPassword)
	})
}

func TestAuthenticateBadCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	})
	auth := NewAuthClient(client, testLogger())

	_, err := auth.Authenticate(context.Background(), "ann@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCurrentUser(t *testing.T) {
	t.Run("Resolves Identity", func(t *testing.T) {
		identity := uuid.New()
		var authHeader string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/user", r.URL.Path)
			authHeader = r.Header.Get("Authorization")
			w.Write([]byte(`{"id":"` + identity.String() + `","email":"ann@example.com"}`))
		})
		auth := NewAuthClient(client, testLogger())

		session, err := auth.CurrentUser(context.Background(), "stored-token")
		require.NoError(t, err)

		assert.Equal(t, "Bearer stored-token", authHeader)
		assert.Equal(t, identity, session.Identity)
		assert.Equal(t, "stored-token", session.AccessToken)
	})

	t.Run("Rejected Token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"msg":"invalid JWT"}`))
		})
		auth := NewAuthClient(client, testLogger())

		_, err := auth.CurrentUser(context.Background(), "expired")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestInvalidate(t *testing.T) {
	var called bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer the-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	auth := NewAuthClient(client, testLogger())

	require.NoError(t, auth.Invalidate(context.Background(), "the-token"))
	assert.True(t, called)
}
