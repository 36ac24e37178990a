package freshservice

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/matzehuels/swcatalog/pkg/buildinfo"
	errs "github.com/matzehuels/swcatalog/pkg/errors"
	"github.com/matzehuels/swcatalog/pkg/httputil"
	"github.com/matzehuels/swcatalog/pkg/integrations"
	"github.com/matzehuels/swcatalog/pkg/observability"
)

// Config holds the connection settings for a Freshservice tenant.
type Config struct {
	Domain     string        // Tenant host, e.g. "acme.freshservice.com"
	APIKey     string        // API key, sent as the basic-auth user name
	PageSize   int           // per_page for collection endpoints (0 → DefaultPageSize)
	Timeout    time.Duration // Per-request timeout (0 → integrations.DefaultTimeout)
	MaxRetries int           // Attempts per request (0 → httputil.DefaultAttempts)
	Backoff    time.Duration // Wait between failed attempts (0 → httputil.DefaultBackoff)
	Sleep      httputil.SleepFunc
}

// Client provides access to the Freshservice v2 REST API.
// It handles authentication, pagination, retries and rate limits.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	pageSize int
	progress ProgressFunc
}

// NewClient creates a Freshservice client. The hooks receive one event per
// physical HTTP attempt; pass nil for none.
func NewClient(cfg Config, hooks observability.HTTPHooks) (*Client, error) {
	if err := errs.ValidateDomain(cfg.Domain); err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "API key cannot be empty")
	}
	return newClient("https://"+cfg.Domain+"/api/v2", cfg, hooks), nil
}

func newClient(baseURL string, cfg Config, hooks observability.HTTPHooks) *Client {
	policy := httputil.DefaultPolicy()
	policy.Sleep = cfg.Sleep
	if cfg.MaxRetries > 0 {
		policy.Attempts = cfg.MaxRetries
	}
	if cfg.Backoff > 0 {
		policy.Backoff = cfg.Backoff
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		Client: integrations.NewClient(baseURL, integrations.Options{
			Headers: map[string]string{"User-Agent": buildinfo.UserAgent()},
			Auth:    &integrations.BasicAuth{Username: cfg.APIKey, Password: "X"},
			Timeout: cfg.Timeout,
			Retry:   policy,
			Hooks:   hooks,
		}),
		pageSize: pageSize,
	}
}

// PageSize returns the per_page value used for collection endpoints.
func (c *Client) PageSize() int { return c.pageSize }

// SetProgress registers a callback invoked every few pages of a collection walk.
func (c *Client) SetProgress(fn ProgressFunc) { c.progress = fn }

// Vendors lists every vendor.
func (c *Client) Vendors(ctx context.Context) ([]Vendor, error) {
	return FetchAll[Vendor](ctx, c, "/vendors", "vendors", c.pageSize, c.progress)
}

// Applications lists every software application.
func (c *Client) Applications(ctx context.Context) ([]Application, error) {
	return FetchAll[Application](ctx, c, "/applications", "applications", c.pageSize, c.progress)
}

// ApplicationUsers lists the user assignments of one application.
func (c *Client) ApplicationUsers(ctx context.Context, appID string) ([]ApplicationUser, error) {
	path := fmt.Sprintf("/applications/%s/users", integrations.URLEncode(appID))
	return FetchAll[ApplicationUser](ctx, c, path, "application_users", c.pageSize, c.progress)
}

// ApplicationLicenses lists the licenses attached to one application.
func (c *Client) ApplicationLicenses(ctx context.Context, appID string) ([]ApplicationLicense, error) {
	path := fmt.Sprintf("/applications/%s/licenses", integrations.URLEncode(appID))
	return FetchAll[ApplicationLicense](ctx, c, path, "licenses", c.pageSize, c.progress)
}

// Installations lists the endpoint installations of one application.
func (c *Client) Installations(ctx context.Context, appID string) ([]Installation, error) {
	path := fmt.Sprintf("/applications/%s/installations", integrations.URLEncode(appID))
	return FetchAll[Installation](ctx, c, path, "installations", c.pageSize, c.progress)
}

// Asset fetches one asset including its type fields.
//
// Returns [integrations.ErrNotFound] if the asset doesn't exist, or the last
// failure once retries are exhausted.
func (c *Client) Asset(ctx context.Context, displayID string) (*Asset, error) {
	path := fmt.Sprintf("/assets/%s?include=type_fields", integrations.URLEncode(displayID))
	var a Asset
	if err := c.GetField(ctx, path, "asset", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteApplication removes one application.
func (c *Client) DeleteApplication(ctx context.Context, appID string) error {
	return c.Delete(ctx, "/applications/"+integrations.URLEncode(appID))
}

// CreateTicket files a ticket and returns the created record.
// Anything but 201 Created is an error.
func (c *Client) CreateTicket(ctx context.Context, t Ticket) (*CreatedTicket, error) {
	var resp struct {
		Ticket CreatedTicket `json:"ticket"`
	}
	if err := c.Post(ctx, "/tickets", t, http.StatusCreated, &resp); err != nil {
		return nil, errs.Wrap(errs.ErrCodeRejected, err, "ticket was not created")
	}
	return &resp.Ticket, nil
}
