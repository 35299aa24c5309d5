// Package fountain calls the external fountain-to-HTML rendering
// service. The exchange is a single request/response with a bounded
// timeout; a renderer that is unreachable, slow, or broken degrades to
// a clearly marked HTML error payload instead of a fault, so preview
// requests never hard-fail because of the collaborator.
package fountain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Degraded payloads returned when the renderer cannot be used.
const (
	unreachableHTML = "<p>Error: Could not connect to the Fountain parser service.</p>"
	invalidHTML     = "<p>Error: Invalid response from parser service.</p>"
)

// DefaultTimeout bounds a render call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Client is an HTTP client for the fountain parser service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a renderer client. timeout <= 0 uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type parseRequest struct {
	FountainText string `json:"fountain_text"`
}

type parseResponse struct {
	HTML string `json:"html"`
}

// Render returns the rendered HTML for raw fountain text. Empty input
// renders to the empty string without a service call. Failures are
// returned as degraded HTML payloads, never as errors.
func (c *Client) Render(ctx context.Context, text string) string {
	if text == "" {
		return ""
	}

	body, err := json.Marshal(parseRequest{FountainText: text})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode render request", "err", err)
		return invalidHTML
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", bytes.NewReader(body))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build render request", "err", err)
		return unreachableHTML
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "Fountain parser service unreachable", "url", c.baseURL, "err", err)
		return unreachableHTML
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.WarnContext(ctx, "Fountain parser service returned error", "status", resp.StatusCode)
		return unreachableHTML
	}

	var out parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.WarnContext(ctx, "Invalid response from fountain parser service", "err", err)
		return invalidHTML
	}
	if out.HTML == "" {
		return invalidHTML
	}
	return out.HTML
}

// Health checks the renderer's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("parser service health check returned %d", resp.StatusCode)
	}
	return nil
}
