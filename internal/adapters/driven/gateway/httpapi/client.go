// Package httpapi is a LayoutStore backed by the storefront's
// /custom-layout HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.LayoutStore = (*Client)(nil)

const (
	// DefaultTimeout bounds each request when Config.Timeout is zero.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 4 << 20
)

// Config configures a Client.
type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:4000.
	BaseURL string
	// Timeout bounds each request.
	Timeout time.Duration
	// RateLimit is the sustained requests per second. Zero disables it.
	RateLimit float64
	// HTTPClient overrides the transport. Defaults to a plain http.Client.
	HTTPClient *http.Client
}

// Client talks to the layout backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	limiter *rateLimiter
}

// layoutResponse is the body of GET /custom-layout/{id}.
type layoutResponse struct {
	Success bool             `json:"success"`
	Layout  *domain.Snapshot `json:"layout"`
	Error   string           `json:"error,omitempty"`
}

// saveRequest is the body of POST /custom-layout/{id}.
type saveRequest struct {
	Layout       domain.Snapshot `json:"layout"`
	RestaurantID string          `json:"restaurantId"`
}

// statusResponse is the body of POST and DELETE responses.
type statusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewClient creates a client for the backend at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, fmt.Errorf("%w: backend url is empty", domain.ErrInvalidInput)
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: backend url %q", domain.ErrInvalidInput, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	burst := int(cfg.RateLimit)
	return &Client{
		base:    base,
		http:    httpClient,
		timeout: timeout,
		limiter: newRateLimiter(cfg.RateLimit, burst),
	}, nil
}

// Load fetches the saved layout for key.
func (c *Client) Load(ctx context.Context, key string) (*domain.Snapshot, error) {
	var body layoutResponse
	if err := c.do(ctx, http.MethodGet, key, nil, &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, fmt.Errorf("%w: backend refused load: %s", domain.ErrPersistenceFailure, body.Error)
	}
	if body.Layout == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoLayout, key)
	}
	return body.Layout, nil
}

// Save posts snapshot for key.
func (c *Client) Save(ctx context.Context, key string, snapshot domain.Snapshot) error {
	payload, err := json.Marshal(saveRequest{Layout: snapshot, RestaurantID: key})
	if err != nil {
		return fmt.Errorf("marshalling layout: %w", err)
	}
	var body statusResponse
	if err := c.do(ctx, http.MethodPost, key, payload, &body); err != nil {
		return err
	}
	if !body.Success {
		return fmt.Errorf("%w: backend refused save: %s", domain.ErrPersistenceFailure, body.Error)
	}
	return nil
}

// Delete resets the saved layout for key.
func (c *Client) Delete(ctx context.Context, key string) error {
	var body statusResponse
	if err := c.do(ctx, http.MethodDelete, key, nil, &body); err != nil {
		if errors.Is(err, domain.ErrNoLayout) {
			return nil
		}
		return err
	}
	if !body.Success {
		return fmt.Errorf("%w: backend refused delete: %s", domain.ErrPersistenceFailure, body.Error)
	}
	return nil
}

// layoutURL returns the endpoint for key.
func (c *Client) layoutURL(key string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/custom-layout/" + url.PathEscape(key)
	return u.String()
}

// do sends one request and decodes a JSON response into out. Every
// failure other than a 404 is reported as domain.ErrPersistenceFailure.
func (c *Client) do(ctx context.Context, method, key string, payload []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: waiting for rate limiter: %w", domain.ErrPersistenceFailure, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.layoutURL(key), reqBody)
	if err != nil {
		return fmt.Errorf("%w: building request: %w", domain.ErrPersistenceFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("%s %s", method, req.URL.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", domain.ErrPersistenceFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNoLayout, key)
	case resp.StatusCode == http.StatusTooManyRequests:
		c.limiter.Backoff(retryAfter(resp.Header.Get("Retry-After")))
		return fmt.Errorf("%w: rate limited by backend", domain.ErrPersistenceFailure)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: backend returned %s", domain.ErrPersistenceFailure, resp.Status)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
