package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/goonline/platform/internal/domain"
)

// AuthClient implements domain.Authenticator against the hosted auth API.
// Password hashing, credential storage, and token issuance all happen
// remotely.
type AuthClient struct {
	client *Client
	logger *slog.Logger
}

// NewAuthClient creates an AuthClient on top of an existing Client.
func NewAuthClient(c *Client, logger *slog.Logger) *AuthClient {
	return &AuthClient{client: c, logger: logger}
}

type authUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type authResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         authUser `json:"user"`
}

// CreateAccount registers a new identity and returns its session.
func (a *AuthClient) CreateAccount(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{"email": email, "password": password}
	data, err := a.client.authRequest(ctx, http.MethodPost, "signup", body, "")
	if err != nil {
		return nil, err
	}
	return a.sessionFromResponse(data)
}

// Authenticate resolves a session from stored credentials.
func (a *AuthClient) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{"email": email, "password": password}
	data, err := a.client.authRequest(ctx, http.MethodPost, "token?grant_type=password", body, "")
	if err != nil {
		return nil, err
	}
	return a.sessionFromResponse(data)
}

// Invalidate revokes the token remotely. Callers treat failures as
// non-fatal.
func (a *AuthClient) Invalidate(ctx context.Context, accessToken string) error {
	_, err := a.client.authRequest(ctx, http.MethodPost, "logout", nil, accessToken)
	return err
}

// CurrentUser resolves the identity behind a previously issued token.
func (a *AuthClient) CurrentUser(ctx context.Context, accessToken string) (*domain.Session, error) {
	data, err := a.client.authRequest(ctx, http.MethodGet, "user", nil, accessToken)
	if err != nil {
		return nil, err
	}

	var u authUser
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	if u.ID == uuid.Nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Session{
		Identity:    u.ID,
		Email:       u.Email,
		AccessToken: accessToken,
		ExpiresAt:   tokenExpiry(accessToken),
	}, nil
}

func (a *AuthClient) sessionFromResponse(data []byte) (*domain.Session, error) {
	var resp authResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal auth response: %w", err)
	}
	if resp.AccessToken == "" || resp.User.ID == uuid.Nil {
		return nil, domain.ErrInvalidCredentials
	}

	expiresAt := tokenExpiry(resp.AccessToken)
	if expiresAt.IsZero() && resp.ExpiresIn > 0 {
		expiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	return &domain.Session{
		Identity:     resp.User.ID,
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// tokenExpiry decodes the expiry claim from an access token. The signature
// is the remote service's to verify, not ours, so the claims are parsed
// without verification.
func tokenExpiry(accessToken string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
