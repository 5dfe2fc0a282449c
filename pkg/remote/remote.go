// Package remote holds the HTTP plumbing and error types shared by the
// auxiliary REST clients.
package remote

import (
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
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 2048
)

// ValidationError reports input rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError reports a failed request or a non-2xx response.
// StatusCode is zero when no response was received.
type TransportError struct {
	Service    string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("%s request failed (%d): %s", e.Service, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("%s request failed (%d)", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EmptyResultError reports a successful response without usable content.
type EmptyResultError struct {
	Service string
}

func (e *EmptyResultError) Error() string {
	return e.Service + " returned no result"
}

// Client issues JSON GET requests against one base URL.
type Client struct {
	Service string
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a Client. A non-positive timeout uses 15s.
func NewClient(service, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		Service: service,
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// GetJSON requests BaseURL+path with query and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint, err := c.buildURL(path, query)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", c.Service, err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		err = redactURLError(err)
		slog.Warn("remote_request_error", "service", c.Service, "path", path, "error", err)
		return &TransportError{Service: c.Service, Err: err}
	}
	defer resp.Body.Close()

	slog.Debug("remote_response",
		"service", c.Service,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{
			Service:    c.Service,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{
			Service:    c.Service,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

// redactURLError drops the query string from a *url.Error so credentials
// passed as parameters never reach logs or the screen.
func redactURLError(err error) error {
	var uErr *url.Error
	if !errors.As(err, &uErr) {
		return err
	}
	redacted := *uErr
	if u, perr := url.Parse(uErr.URL); perr == nil {
		u.RawQuery = ""
		u.User = nil
		redacted.URL = u.String()
	} else {
		redacted.URL = "<redacted>"
	}
	return &redacted
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	trimmed := strings.TrimSpace(c.BaseURL)
	if trimmed == "" {
		return "", &ValidationError{Field: "api_url", Reason: "is required"}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", &ValidationError{Field: "api_url", Reason: err.Error()}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", &ValidationError{Field: "api_url", Reason: "must include scheme and host"}
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		parsed.RawQuery = query.Encode()
	}
	return parsed.String(), nil
}
