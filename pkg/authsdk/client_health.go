package authsdk

import (
	"context"
	"net/http"
)

// Health calls GET /healthz.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/healthz", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readiness calls GET /readyz. A 503 comes back as an *httpx.APIError.
func (c *Client) Readiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
