package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swcatalog/pkg/observability"
	"github.com/matzehuels/swcatalog/pkg/pipeline"
	"github.com/matzehuels/swcatalog/pkg/registry"
	"github.com/matzehuels/swcatalog/pkg/report"
)

// syncCommand creates the sync command.
func (c *CLI) syncCommand() *cobra.Command {
	var (
		filters filterFlags
		expand  bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refetch vendors and applications and update the local cache",
		Long: `Refetch the vendor and application lists from Freshservice, replacing the
cached snapshot. With --expand, also fetch users, licenses and installations
for all software, or for the software selected by --vendor/--software.`,
		Example: `  swcatalog sync
  swcatalog sync --expand --vendor adobe`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSync(cmd.Context(), filters, expand)
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&expand, "expand", false, "fetch users, licenses and installations")

	return cmd
}

func (c *CLI) runSync(ctx context.Context, filters filterFlags, expand bool) error {
	s, err := c.newSession()
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := c.startSpinner(ctx, "Fetching catalog...")
	reg, stats, err := s.runner.Build(ctx, pipeline.Options{Refresh: true})
	if err != nil {
		stopFailed(spinner, "Sync failed")
		return err
	}
	spinner.StopWithSuccess("Synced catalog")
	printCatalogStats(stats.Vendors, stats.Software, false)

	if !expand {
		printNextStep("Expand", appName+" sync --expand")
		return nil
	}

	n, err := c.expandSelection(ctx, s, reg, filters)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Expanded %d applications", n))
	printFile(s.cfg.SoftwareCache)
	return nil
}

// loadCatalog builds the registry from cache (or remote when refresh is set
// or the cache is empty).
func (c *CLI) loadCatalog(ctx context.Context, s *session, refresh bool) (*registry.Registry, error) {
	spinner := c.startSpinner(ctx, "Loading catalog...")
	reg, stats, err := s.runner.Build(ctx, pipeline.Options{Refresh: refresh})
	if err != nil {
		stopFailed(spinner, "Loading failed")
		return nil, err
	}
	spinner.Stop()
	loggerFromContext(ctx).Debug("catalog ready",
		"vendors", stats.Vendors,
		"software", stats.Software,
		"vendor_cache", stats.VendorCacheHit,
		"software_cache", stats.SoftwareCacheHit)
	return reg, nil
}

// expandSelection expands the software the filters select.
func (c *CLI) expandSelection(ctx context.Context, s *session, reg *registry.Registry, filters filterFlags) (int, error) {
	sel, err := filters.resolve(reg)
	if err != nil {
		return 0, err
	}
	return c.expand(ctx, s, reg, sel)
}

func (c *CLI) expand(ctx context.Context, s *session, reg *registry.Registry, sel report.Selection) (int, error) {
	ids, all := softwareIDs(reg, sel)
	if !all && len(ids) == 0 {
		return 0, nil
	}

	count := len(ids)
	if all {
		count = len(reg.Software)
	}
	spinner := c.startSpinner(ctx, fmt.Sprintf("Expanding %d applications...", count))
	hooks := s.runner.Hooks
	s.runner.Hooks = observability.Combine(
		observability.Hooks{Sync: hooks},
		observability.Hooks{Sync: &expandProgress{spinner: spinner, total: count}},
	).Sync
	defer func() { s.runner.Hooks = hooks }()

	n, err := s.runner.Expand(ctx, reg, ids)
	if err != nil {
		stopFailed(spinner, "Expansion failed")
		return n, err
	}
	spinner.Stop()
	return n, nil
}

// startSpinner starts a spinner unless debug logging would interleave with it.
func (c *CLI) startSpinner(ctx context.Context, message string) *Spinner {
	s := newSpinnerWithContext(ctx, message)
	if c.Logger.GetLevel() <= LogDebug {
		s.quiet = true
	}
	s.Start()
	return s
}

// stopFailed stops a spinner after an error. An interrupted run gets no
// failure line; the interrupt already explains it.
func stopFailed(s *Spinner, message string) {
	if s.Cancelled() {
		s.Stop()
		return
	}
	s.StopWithError(message)
}
