package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/swcatalog/internal/config"
	"github.com/matzehuels/swcatalog/pkg/buildinfo"
	"github.com/matzehuels/swcatalog/pkg/cache"
	"github.com/matzehuels/swcatalog/pkg/integrations/freshservice"
	"github.com/matzehuels/swcatalog/pkg/observability"
	"github.com/matzehuels/swcatalog/pkg/pipeline"
	"github.com/matzehuels/swcatalog/pkg/registry"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "swcatalog"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer

	env         *viper.Viper
	noCache     bool
	metricsFile string
	metrics     *observability.Metrics
}

// New creates a new CLI instance with a default logger. Settings are read
// from the environment when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		env:    config.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Verbose reports whether VERBOSE is set in the environment.
func (c *CLI) Verbose() bool {
	return c.env.GetBool(config.EnvVerbose)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "swcatalog syncs and reports the Freshservice software catalog",
		Long:         `swcatalog pulls vendors and applications from Freshservice, expands each application with its users, licenses and installations, and renders the result as a plain-text report or a ticket.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.flushMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVar(&c.noCache, "no-cache", false, "do not read or write the local snapshot cache")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	flags.Int("workers", config.DefaultWorkers, "concurrent expansion workers (env "+config.EnvWorkers+")")
	_ = c.env.BindPFlag(config.EnvWorkers, flags.Lookup("workers"))

	root.AddCommand(c.syncCommand())
	root.AddCommand(c.vendorsCommand())
	root.AddCommand(c.softwareCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.pruneCommand())
	root.AddCommand(c.ticketCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Session - per-command wiring
// =============================================================================

// session bundles what a command needs to talk to Freshservice.
type session struct {
	cfg    *config.Config
	client *freshservice.Client
	runner *pipeline.Runner
}

// loadConfig reads and validates the environment.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.env)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// hooks returns the instrumentation for this invocation.
func (c *CLI) hooks() observability.Hooks {
	logHooks := observability.NewLogHooks(c.Logger)
	if c.metricsFile == "" {
		return logHooks
	}
	if c.metrics == nil {
		c.metrics = observability.NewMetrics()
	}
	return observability.Combine(logHooks, c.metrics.Hooks())
}

func (c *CLI) flushMetrics() error {
	if c.metrics == nil || c.metricsFile == "" {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
		return err
	}
	c.Logger.Debug("wrote metrics", "file", c.metricsFile)
	return nil
}

// newSession creates the client, snapshot store and pipeline runner.
func (c *CLI) newSession() (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	hooks := c.hooks()

	client, err := freshservice.NewClient(freshservice.Config{
		Domain:     cfg.Domain,
		APIKey:     cfg.APIKey,
		PageSize:   cfg.PageSize,
		Timeout:    cfg.RequestTimeout,
		MaxRetries: cfg.MaxRetries,
	}, hooks.HTTP)
	if err != nil {
		return nil, err
	}
	client.SetProgress(func(collection string, records int) {
		c.Logger.Debug("fetching", "collection", collection, "records", records)
	})

	store := registry.NewStore(c.newCache(cfg, hooks.Cache), c.Logger)
	runner := pipeline.NewRunner(client, store, c.Logger)
	runner.Workers = cfg.Workers
	runner.Hooks = hooks.Sync
	runner.Enricher = pipeline.NewEnricher(client, cfg.StatusField, runner.Logger)

	runner.Logger.Debug("session", "api", client.BaseURL(), "config", cfg.String())
	return &session{cfg: cfg, client: client, runner: runner}, nil
}

func (c *CLI) newCache(cfg *config.Config, hooks observability.CacheHooks) cache.Store {
	if c.noCache {
		return cache.NewNullStore()
	}
	return cache.NewFileStore(cachePaths(cfg), hooks)
}

func cachePaths(cfg *config.Config) cache.Paths {
	return cache.Paths{Vendor: cfg.VendorCache, Software: cfg.SoftwareCache}
}
