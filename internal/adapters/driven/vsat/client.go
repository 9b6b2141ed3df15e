// Package vsat implements the driven.ModelAPI port against a Virtual
// Satellite data-modeling server: bearer-token auth, rate-limited JSON GETs
// and the collection endpoints the generator crawls.
package vsat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
	"github.com/vsat-labs/satsync-cli/internal/logger"
)

// Ensure Client implements the port.
var _ driven.ModelAPI = (*Client)(nil)

const (
	// DefaultTimeout bounds every single HTTP request.
	DefaultTimeout = 30 * time.Second

	// defaultRequestsPerSecond throttles the crawl so a generation run
	// never hammers a small on-premise server.
	defaultRequestsPerSecond = 10
)

// Config holds the connection settings for a modeling server.
type Config struct {
	// BaseURL is the server root, e.g. http://127.0.0.1:8000.
	BaseURL  string
	Username string
	Password string

	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration

	// RequestsPerSecond overrides the default throttle when positive.
	RequestsPerSecond float64
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d for %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("server returned %d for %s", e.StatusCode, e.URL)
}

// Client is an authenticated HTTP client for the modeling server.
// Authorization is lazy: the first request triggers a token exchange, and
// a 401 on any later request invalidates the token and retries once with
// a fresh one.
type Client struct {
	cfg     Config
	limiter *rate.Limiter

	mu   sync.Mutex
	http *http.Client
}

// NewClient builds a client. No network traffic happens until the first
// call.
func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	return &Client{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// authorize exchanges the credentials for an access token and installs a
// token-bearing HTTP client. Callers must hold c.mu.
func (c *Client) authorize(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	})
	if err != nil {
		return err
	}

	loginURL := c.cfg.BaseURL + "/api/authorize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	plain := &http.Client{Timeout: c.cfg.Timeout}
	resp, err := plain.Do(req)
	if err != nil {
		return fmt.Errorf("authorizing against %s: %w", c.cfg.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("invalid credentials for %s: %w", c.cfg.BaseURL, domain.ErrAuthFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, URL: loginURL, Message: readErrorBody(resp.Body)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decoding authorize response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("no access token received: %w", domain.ErrAuthFailed)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: payload.AccessToken})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = c.cfg.Timeout
	c.http = tc

	logger.Debug("authorized against %s", c.cfg.BaseURL)
	return nil
}

func (c *Client) authedClient(ctx context.Context) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.http == nil {
		if err := c.authorize(ctx); err != nil {
			return nil, err
		}
	}
	return c.http, nil
}

func (c *Client) invalidate() {
	c.mu.Lock()
	c.http = nil
	c.mu.Unlock()
}

// get fetches a JSON resource into out, re-authorizing once on a 401.
func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	fullURL := c.cfg.BaseURL + path
	for attempt := 0; attempt < 2; attempt++ {
		client, err := c.authedClient(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", fullURL, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			// Token expired server-side; drop it and retry once.
			resp.Body.Close()
			logger.Debug("token rejected for %s, re-authorizing", fullURL)
			c.invalidate()
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := &APIError{StatusCode: resp.StatusCode, URL: fullURL, Message: readErrorBody(resp.Body)}
			resp.Body.Close()
			return apiErr
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decoding %s: %w", fullURL, err)
		}
		return nil
	}
	return fmt.Errorf("fetching %s: %w", fullURL, domain.ErrAuthFailed)
}

// readErrorBody extracts a short diagnostic from an error response.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Projects implements driven.ModelAPI.
func (c *Client) Projects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.get(ctx, "/api/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// EntityTypes implements driven.ModelAPI.
func (c *Client) EntityTypes(ctx context.Context, projectID string) ([]domain.EntityType, error) {
	var types []domain.EntityType
	if err := c.get(ctx, projectPath(projectID, "entity-types"), &types); err != nil {
		return nil, err
	}
	return types, nil
}

// Entities implements driven.ModelAPI. The endpoint wraps the list in an
// envelope object; the caller gets the bare slice.
func (c *Client) Entities(ctx context.Context, projectID string) ([]domain.Entity, error) {
	var collection domain.EntityCollection
	if err := c.get(ctx, projectPath(projectID, "entities"), &collection); err != nil {
		return nil, err
	}
	return collection.Entities, nil
}

// Categories implements driven.ModelAPI.
func (c *Client) Categories(ctx context.Context, projectID string) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.get(ctx, projectPath(projectID, "categories"), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func projectPath(projectID, resource string) string {
	return "/api/projects/" + url.PathEscape(projectID) + "/" + resource
}
