package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
	"github.com/matzehuels/swcatalog/pkg/httputil"
	"github.com/matzehuels/swcatalog/pkg/observability"
)

// Options configures a [Client].
type Options struct {
	Headers map[string]string       // Applied to every request
	Auth    *BasicAuth              // Optional basic-auth credentials
	Timeout time.Duration           // Per-request timeout (0 → DefaultTimeout)
	Retry   httputil.Policy         // Retry policy for idempotent requests
	Hooks   observability.HTTPHooks // Optional request instrumentation
}

// Client provides shared HTTP functionality for REST API clients.
// It handles authentication, retry logic, status mapping and common headers.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
	auth    *BasicAuth
	retry   httputil.Policy
	hooks   observability.HTTPHooks
	now     func() time.Time
}

// NewClient creates a Client for the API rooted at baseURL (no trailing slash).
func NewClient(baseURL string, opts Options) *Client {
	hooks := opts.Hooks
	if hooks == nil {
		hooks = observability.NoopHTTPHooks{}
	}
	return &Client{
		http:    NewHTTPClient(opts.Timeout),
		baseURL: baseURL,
		headers: opts.Headers,
		auth:    opts.Auth,
		retry:   opts.Retry,
		hooks:   hooks,
		now:     time.Now,
	}
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// Get performs a GET request against path and JSON-decodes the body into v.
// Transient failures are retried according to the client's policy.
func (c *Client) Get(ctx context.Context, path string, v any) error {
	err := c.retry.Do(ctx, func() error {
		return c.once(ctx, http.MethodGet, path, nil, http.StatusOK, v)
	})
	return classify(http.MethodGet, path, err)
}

// GetField performs a GET request and decodes only the named top-level field
// of the response envelope into v (e.g. "vendors" for {"vendors": [...]}).
// A response without that field is reported as [ErrMalformed].
func (c *Client) GetField(ctx context.Context, path, field string, v any) error {
	return c.Get(ctx, path, &envelope{field: field, v: v})
}

// Post sends body as JSON and decodes the response into v (if non-nil).
// The request succeeds only on the expected status code. Only rate-limit
// responses are retried: any other failure may have been processed by the
// server, and resending a POST would duplicate it.
func (c *Client) Post(ctx context.Context, path string, body any, want int, v any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	err = c.single().Do(ctx, func() error {
		return c.once(ctx, http.MethodPost, path, data, want, v)
	})
	return classify(http.MethodPost, path, err)
}

// Delete performs a DELETE request and expects 204 No Content. Like Post it
// is retried on rate limits only: a delete that timed out may have been
// applied, and resending it would turn into a 404.
func (c *Client) Delete(ctx context.Context, path string) error {
	err := c.single().Do(ctx, func() error {
		return c.once(ctx, http.MethodDelete, path, nil, http.StatusNoContent, nil)
	})
	return classify(http.MethodDelete, path, err)
}

// single is the client's policy reduced to one attempt.
func (c *Client) single() httputil.Policy {
	p := c.retry
	p.Attempts = 1
	return p
}

// classify tags a transient failure that outlived the retry policy with
// NETWORK_ERROR, or TIMEOUT when the last attempt timed out. Other errors,
// such as [ErrNotFound], pass through unchanged.
func classify(method, path string, err error) error {
	if err == nil || !httputil.IsRetryable(err) {
		return err
	}
	code := errs.ErrCodeNetwork
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		code = errs.ErrCodeTimeout
	}
	return errs.Wrap(code, err, "%s %s", method, path)
}

// once performs exactly one physical request.
func (c *Client) once(ctx context.Context, method, path string, body []byte, want int, v any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	if c.auth != nil {
		req.SetBasicAuth(c.auth.Username, c.auth.Password)
	}

	c.hooks.OnRequest(ctx, method, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.hooks.OnError(ctx, method, path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httputil.Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
	}
	defer resp.Body.Close()
	c.hooks.OnResponse(ctx, method, path, resp.StatusCode, time.Since(start))

	if err := c.checkStatus(resp, want); err != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return err
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformed, method, path, err)
	}
	return nil
}

func (c *Client) checkStatus(resp *http.Response, want int) error {
	return checkStatus(resp.StatusCode, want, resp.Header.Get("Retry-After"), c.now())
}

func checkStatus(code, want int, retryAfter string, now time.Time) error {
	switch {
	case code == want:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return &errs.RateLimitedError{RetryAfter: ParseRetryAfter(retryAfter, now)}
	default:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	}
}

// envelope decodes one named field out of a JSON object.
type envelope struct {
	field string
	v     any
}

func (e *envelope) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	raw, ok := fields[e.field]
	if !ok {
		return fmt.Errorf("missing field %q", e.field)
	}
	return json.Unmarshal(raw, e.v)
}
