// Package config reads swcatalog settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
)

// appName names the default cache directory.
const appName = "swcatalog"

// Environment variable names.
const (
	EnvDomain         = "FRESH_DOMAIN"
	EnvKey            = "FRESH_KEY"
	EnvPageSize       = "FRESH_PAGE_SIZE"
	EnvWorkspaceID    = "FRESH_WORKSPACE_ID"
	EnvContactEmail   = "FRESH_DEFAULT_CONTACT_EMAIL"
	EnvDeptID         = "FRESH_DEFAULT_DEPT_ID"
	EnvGroupID        = "FRESH_DEFAULT_GROUP_ID"
	EnvCategory       = "FRESH_DEFAULT_CATEGORY"
	EnvSubject        = "FRESH_DEFAULT_SUBJECT"
	EnvRequestTimeout = "MAX_REQUEST_TIMEOUT"
	EnvMaxRetries     = "MAX_REQUEST_RETRIES"
	EnvVerbose        = "VERBOSE"
	EnvWorkers        = "FRESH_WORKERS"
	EnvStatusField    = "FRESH_STATUS_FIELD"
	EnvVendorCache    = "FRESH_VENDOR_CACHE"
	EnvSoftwareCache  = "FRESH_SOFTWARE_CACHE"
)

// Defaults.
const (
	DefaultPageSize       = 100
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRetries     = 3
	DefaultWorkers        = 5
	DefaultStatusField    = "asset_state_11000765764"
	DefaultSubject        = "Software catalog report"
	maxPageSize           = 100
)

// Config is the resolved runtime configuration.
type Config struct {
	Domain      string
	APIKey      string
	PageSize    int
	WorkspaceID int64

	ContactEmail string
	DeptID       int64
	GroupID      int64
	Category     string
	Subject      string

	RequestTimeout time.Duration
	MaxRetries     int
	Verbose        bool
	Workers        int
	StatusField    string

	VendorCache   string
	SoftwareCache string
}

// New returns a viper instance bound to the environment variables above
// with their defaults applied. Callers may override keys (e.g. from flags)
// before passing it to Load.
func New() *viper.Viper {
	v := viper.New()
	for _, key := range []string{
		EnvDomain, EnvKey, EnvPageSize, EnvWorkspaceID,
		EnvContactEmail, EnvDeptID, EnvGroupID, EnvCategory, EnvSubject,
		EnvRequestTimeout, EnvMaxRetries, EnvVerbose, EnvWorkers, EnvStatusField,
		EnvVendorCache, EnvSoftwareCache,
	} {
		_ = v.BindEnv(key)
	}

	v.SetDefault(EnvPageSize, DefaultPageSize)
	v.SetDefault(EnvRequestTimeout, DefaultRequestTimeout.String())
	v.SetDefault(EnvMaxRetries, DefaultMaxRetries)
	v.SetDefault(EnvWorkers, DefaultWorkers)
	v.SetDefault(EnvStatusField, DefaultStatusField)
	v.SetDefault(EnvSubject, DefaultSubject)
	if dir, err := CacheDir(); err == nil {
		v.SetDefault(EnvVendorCache, filepath.Join(dir, "vendors.json"))
		v.SetDefault(EnvSoftwareCache, filepath.Join(dir, "software.json"))
	}
	return v
}

// Load reads a Config from v. Values that fail to parse are reported as
// INVALID_CONFIG errors; missing credentials are not checked here, see
// [Config.Validate].
func Load(v *viper.Viper) (*Config, error) {
	timeout, err := parseTimeout(v.GetString(EnvRequestTimeout))
	if err != nil {
		return nil, err
	}

	c := &Config{
		Domain:         strings.TrimSpace(v.GetString(EnvDomain)),
		APIKey:         strings.TrimSpace(v.GetString(EnvKey)),
		ContactEmail:   v.GetString(EnvContactEmail),
		Category:       v.GetString(EnvCategory),
		Subject:        v.GetString(EnvSubject),
		RequestTimeout: timeout,
		Verbose:        v.GetBool(EnvVerbose),
		StatusField:    v.GetString(EnvStatusField),
		VendorCache:    v.GetString(EnvVendorCache),
		SoftwareCache:  v.GetString(EnvSoftwareCache),
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvPageSize, &c.PageSize},
		{EnvMaxRetries, &c.MaxRetries},
		{EnvWorkers, &c.Workers},
	}
	for _, f := range ints {
		n, err := parseInt(v, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = int(n)
	}

	ids := []struct {
		key string
		dst *int64
	}{
		{EnvWorkspaceID, &c.WorkspaceID},
		{EnvDeptID, &c.DeptID},
		{EnvGroupID, &c.GroupID},
	}
	for _, f := range ids {
		n, err := parseInt(v, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = n
	}
	return c, nil
}

// Validate checks the settings every remote operation needs.
func (c *Config) Validate() error {
	if c.Domain == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "%s is not set", EnvDomain)
	}
	if err := errs.ValidateDomain(c.Domain); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s", EnvDomain)
	}
	if c.APIKey == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "%s is not set", EnvKey)
	}
	if c.PageSize < 1 || c.PageSize > maxPageSize {
		return errs.New(errs.ErrCodeInvalidConfig, "%s must be between 1 and %d, got %d", EnvPageSize, maxPageSize, c.PageSize)
	}
	if c.MaxRetries < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "%s must be at least 1, got %d", EnvMaxRetries, c.MaxRetries)
	}
	if c.Workers < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "%s must be at least 1, got %d", EnvWorkers, c.Workers)
	}
	if c.RequestTimeout <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "%s must be positive", EnvRequestTimeout)
	}
	return nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/swcatalog/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func parseInt(v *viper.Viper, key string) (int64, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidConfig, "%s: %q is not an integer", key, s)
	}
	return n, nil
}

// parseTimeout accepts plain seconds ("30") or a Go duration ("1m30s").
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultRequestTimeout, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidConfig, "%s: %q is not a duration", EnvRequestTimeout, s)
	}
	return d, nil
}

// String renders the configuration with the API key masked.
func (c *Config) String() string {
	key := "(unset)"
	if c.APIKey != "" {
		key = "****"
	}
	return fmt.Sprintf("domain=%s key=%s page_size=%d timeout=%s retries=%d workers=%d",
		c.Domain, key, c.PageSize, c.RequestTimeout, c.MaxRetries, c.Workers)
}
