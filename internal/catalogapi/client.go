package catalogapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/five82/shelf/internal/catalog"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

const (
	defaultAPIBind   = "127.0.0.1:7490"
	defaultUserAgent = "shelf/0.1"
	requestTimeout   = 5 * time.Second
	defaultMaxTries  = 3
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Path       string
	StatusCode int
	Message    string
	RequestID  string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client talks to the shelfd HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	maxTries  uint
	backoff   func() backoff.BackOff
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMaxTries bounds attempts per call, including the first. Values below
// one are treated as one.
func WithMaxTries(n uint) ClientOption {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.maxTries = n
	}
}

// WithBackOff sets the retry schedule factory.
func WithBackOff(fn func() backoff.BackOff) ClientOption {
	return func(c *Client) {
		if fn != nil {
			c.backoff = fn
		}
	}
}

// NewClient builds a Client using the provided apiBind host:port or URL.
func NewClient(apiBind string, opts ...ClientOption) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		maxTries:  defaultMaxTries,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxInterval = time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Items retrieves the items matching filters.
func (c *Client) Items(ctx context.Context, filters catalog.Filters) ([]catalog.Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/api/items", RawQuery: filters.Query().Encode()}
	var payload ItemListResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// CategoryOptions retrieves the category facet values.
func (c *Client) CategoryOptions(ctx context.Context) ([]string, error) {
	return c.Options(ctx, catalog.FacetCategory)
}

// StatusOptions retrieves the status facet values.
func (c *Client) StatusOptions(ctx context.Context) ([]string, error) {
	return c.Options(ctx, catalog.FacetStatus)
}

// PlatformOptions retrieves the platform facet values.
func (c *Client) PlatformOptions(ctx context.Context) ([]string, error) {
	return c.Options(ctx, catalog.FacetPlatform)
}

// Options retrieves the option list of one facet.
func (c *Client) Options(ctx context.Context, facet catalog.Facet) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/api/options/" + facet.String()}
	var payload OptionsResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	return payload.Values, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.once(ctx, method, rel, dest)
		if err == nil {
			return struct{}{}, nil
		}
		if retryable(err) {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	},
		backoff.WithBackOff(c.backoff()),
		backoff.WithMaxTries(c.maxTries),
	)
	return err
}

func (c *Client) once(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		statusErr := &StatusError{
			Path:       rel.Path,
			StatusCode: resp.StatusCode,
			RequestID:  resp.Header.Get(RequestIDHeader),
		}
		var body ErrorResponse
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096)); readErr == nil {
			if json.Unmarshal(raw, &body) == nil {
				statusErr.Message = body.Error
			}
		}
		return statusErr
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &decodeError{err: err}
	}
	return nil
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	var decErr *decodeError
	return !errors.As(err, &decErr)
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
