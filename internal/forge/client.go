// Package forge is a minimal client for the hosted source-control forge
// the companion repositories live on. It only covers what the bootstrap
// needs: zip archive downloads and latest-release lookups.
package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/statflow/devkit/internal/debug"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 60 * time.Second
	maxRetries     = 3
	baseDelay      = 1 * time.Second
)

// APIError is an error response from the forge.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("forge API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("forge API error (status %d)", e.StatusCode)
}

// Client talks to the forge API. A zero token is valid; unauthenticated
// requests just hit lower rate limits.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a forge client with the given token. Pass an empty
// token for anonymous access.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		token:      token,
		maxRetries: maxRetries,
		retryDelay: baseDelay,
	}
}

// WithHTTPClient sets a custom HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithBaseURL overrides the forge API base URL (for tests and
// self-hosted forges).
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// WithDebug wraps the transport so requests and responses are logged.
func (c *Client) WithDebug(w io.Writer) *Client {
	c.httpClient.Transport = debug.NewDebugTransport(c.httpClient.Transport, w)
	return c
}

// DownloadArchive streams the zip archive of repo at ref into w and
// returns the number of bytes written. repo is an owner/name slug.
func (c *Client) DownloadArchive(ctx context.Context, repo, ref string, w io.Writer) (int64, error) {
	path := fmt.Sprintf("/repos/%s/zipball/%s", repo, ref)
	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return 0, fmt.Errorf("download archive %s@%s: %w", repo, ref, err)
	}
	defer func() { _ = resp.Body.Close() }()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download archive %s@%s: %w", repo, ref, err)
	}
	slog.Debug("downloaded archive", "repo", repo, "ref", ref, "bytes", n)
	return n, nil
}

// LatestRelease returns the tag name of the latest release of repo,
// without any leading "v".
func (c *Client) LatestRelease(ctx context.Context, repo string) (string, error) {
	path := fmt.Sprintf("/repos/%s/releases/latest", repo)
	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return "", fmt.Errorf("latest release of %s: %w", repo, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("latest release of %s: %w", repo, err)
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// doRequest performs a request with retries on rate limits and transient
// server errors.
func (c *Client) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1))
			slog.Debug("retrying forge request", "method", method, "path", path, "attempt", attempt, "delay", delay.String())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.doRequestOnce(ctx, method, path)
		if err != nil {
			lastErr = err
			if apiErr, ok := err.(*APIError); ok && isRetryable(apiErr.StatusCode) {
				continue
			}
			return nil, err
		}
		return resp, nil
	}

	return nil, lastErr
}

func (c *Client) doRequestOnce(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}
	return resp, nil
}

func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}
