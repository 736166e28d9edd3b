package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// TokenFunc supplies the bearer token for data requests. An empty result
// falls back to the anon key, which PostgREST treats as the anonymous role.
type TokenFunc func() string

// Client is a minimal REST client for the hosted data/auth service
// (PostgREST + GoTrue). All persistence, row-level authorization, and
// credential handling happen on the remote side.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	tokens  TokenFunc
}

// Config holds client configuration.
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration

	// RPS caps outgoing requests to stay inside the hosted project's quota.
	// Zero disables the limiter.
	RPS float64
}

// New creates a new client for the hosted service.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("supabase: URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, errors.New("supabase: anon key is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), int(cfg.RPS)+1)
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.AnonKey,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger,
	}, nil
}

// SetTokenSource installs the session token source used for data requests.
func (c *Client) SetTokenSource(fn TokenFunc) {
	c.tokens = fn
}

// Rest performs a PostgREST request against /rest/v1/{table}. The response
// body is returned raw; HTTP-level failures are already mapped to the
// domain error taxonomy.
func (c *Client) Rest(ctx context.Context, method, table string, query url.Values, body any, prefer string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	token := c.apiKey
	if c.tokens != nil {
		if t := c.tokens(); t != "" {
			token = t
		}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	return c.do(req, restError)
}

// authRequest performs a GoTrue request against /auth/v1/{path}.
func (c *Client) authRequest(ctx context.Context, method, path string, body any, bearer string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/auth/v1/%s", c.baseURL, path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, authError)
}

func (c *Client) do(req *http.Request, classify func(status int, body []byte) error) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		err := classify(resp.StatusCode, data)
		c.logger.Debug("upstream request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"error", err,
		)
		return nil, err
	}

	return data, nil
}
