package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every call made by a client built with NewClient.
const DefaultTimeout = 3 * time.Second

// Client talks to the auth service. It is safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, DefaultTimeout)
}

func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a fresh token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	body := LoginRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me resolves token to the identity it was issued for.
func (c *Client) Me(ctx context.Context, token string) (*IdentityResponse, error) {
	var out IdentityResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", tokenQuery(token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate reports whether token is currently live.
func (c *Client) Validate(ctx context.Context, token string) (bool, error) {
	var out ValidateResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/validate", tokenQuery(token), nil, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

// Logout deletes token server-side.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", tokenQuery(token), nil, nil)
}

func tokenQuery(token string) url.Values {
	return url.Values{"token": []string{token}}
}
