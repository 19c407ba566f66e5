package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is the HTTP client for the hosted backend. Table reads and inserts
// go through the REST surface, stored procedures through /rpc/. Responses
// are decoded into explicit typed structs on receipt; the backend's loose
// JSON shapes are never trusted past this boundary.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Verify the client satisfies every remote contract.
var (
	_ CouponService  = (*Client)(nil)
	_ OrderService   = (*Client)(nil)
	_ CatalogService = (*Client)(nil)
	_ StockService   = (*Client)(nil)
)

// NewClient creates a backend client for the given base URL and API key.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "backend-client").Logger(),
	}
}

// Error is a failure reported by the backend, decoded from its error body.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (status %d)", e.StatusCode)
}

// do executes a request against the backend and decodes the JSON response
// into out (skipped when out is nil or the body is empty).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, prefer string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("method", method).
			Str("path", path).
			Msg("backend request failed")
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read backend response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to decode backend response")
		return fmt.Errorf("failed to decode backend response: %w", err)
	}

	return nil
}

// decodeError turns a non-2xx response into an *Error. An undecodable body
// still yields an *Error with the status code.
func (c *Client) decodeError(resp *http.Response) error {
	backendErr := &Error{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(raw) > 0 {
		// Best effort: the body may not be the standard error shape.
		_ = json.Unmarshal(raw, backendErr)
	}

	c.logger.Warn().
		Int("status", resp.StatusCode).
		Str("code", backendErr.Code).
		Str("message", backendErr.Message).
		Msg("backend reported an error")

	return backendErr
}

// rpc invokes a stored procedure by name.
func (c *Client) rpc(ctx context.Context, name string, params any, out any) error {
	return c.do(ctx, http.MethodPost, "/rest/v1/rpc/"+name, nil, params, "", out)
}

// selectRows reads rows from a table with the given filter query.
func (c *Client) selectRows(ctx context.Context, table string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, "/rest/v1/"+table, query, nil, "", out)
}

// insertReturning inserts a row and decodes the returned representation.
func (c *Client) insertReturning(ctx context.Context, table string, row any, out any) error {
	return c.do(ctx, http.MethodPost, "/rest/v1/"+table, nil, row, "return=representation", out)
}

// insert inserts a row without asking for the representation back.
func (c *Client) insert(ctx context.Context, table string, row any) error {
	return c.do(ctx, http.MethodPost, "/rest/v1/"+table, nil, row, "return=minimal", nil)
}

// updateReturning patches rows matching the filter query and decodes the
// returned representation, so callers can tell whether any row matched.
func (c *Client) updateReturning(ctx context.Context, table string, query url.Values, patch any, out any) error {
	return c.do(ctx, http.MethodPatch, "/rest/v1/"+table, query, patch, "return=representation", out)
}
