// Package repo contains all backend access logic for the fleet dashboard.
// Each resource has its own file with an interface and a REST implementation.
// No business logic lives here, only HTTP calls and type mapping.
package repo

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

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/fleet-dashboard/internal/auth"
	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// doer is the minimal interface satisfied by *http.Client.
// Accepting this interface instead of *http.Client directly lets tests pass
// the client of an httptest.Server, or a stub that fails on demand.
type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues JSON requests against the fleet REST backend.
// It forwards the bearer token found in the request context on every call.
type Client struct {
	base *url.URL
	http doer
	log  *slog.Logger
}

// NewClient constructs a Client for the backend rooted at baseURL.
// In production pass an *http.Client with a timeout; in tests pass the
// httptest server's client.
func NewClient(baseURL string, hc doer, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("repo.NewClient: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("repo.NewClient: base url %q must be absolute", baseURL)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{base: u, http: hc, log: log}, nil
}

// APIError is returned when the backend answers with a non-2xx status.
// Message is safe to show to a user; it comes from the backend's "message"
// field when present and falls back to the HTTP status text.
type APIError struct {
	Status  int
	Message string
	Detail  string
	kind    error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s (%s)", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto a domain sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	return e.kind
}

// UserMessage returns a short, human-readable description of err suitable for
// a dismissable banner.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, domain.ErrUnauthorized):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to respond."
	case errors.Is(err, domain.ErrBackend):
		return "The server could not be reached."
	default:
		return "Something went wrong."
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do sends one request and decodes a 2xx JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := auth.TokenFromContext(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "backend request failed",
			"method", method, "path", u.Path, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "backend request",
		"method", method,
		"path", u.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrBackend, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		if m := strings.TrimSpace(eb.Message); m != "" {
			apiErr.Message = m
		}
		apiErr.Detail = strings.TrimSpace(eb.Error)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		apiErr.kind = domain.ErrUnauthorized
	case http.StatusNotFound:
		apiErr.kind = domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		apiErr.kind = domain.ErrValidation
	default:
		apiErr.kind = domain.ErrBackend
	}
	return apiErr
}

// addQuery styles one form-exploded query parameter the way generated
// OpenAPI clients do and adds it to values.
func addQuery(values url.Values, name string, value any) error {
	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return fmt.Errorf("style query param %s: %w", name, err)
	}
	parsed, err := url.ParseQuery(frag)
	if err != nil {
		return fmt.Errorf("parse query param %s: %w", name, err)
	}
	for k, vs := range parsed {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	return nil
}

// pathParam styles a simple path segment, escaping reserved characters.
func pathParam(name string, value any) (string, error) {
	seg, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
	if err != nil {
		return "", fmt.Errorf("style path param %s: %w", name, err)
	}
	return seg, nil
}

// pageMeta is the pagination block of the backend's list envelope.
type pageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}
