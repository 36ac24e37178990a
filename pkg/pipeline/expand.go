package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/swcatalog/pkg/observability"
	"github.com/matzehuels/swcatalog/pkg/registry"
)

// DefaultWorkers is the number of software records expanded concurrently.
const DefaultWorkers = 5

// Expander attaches users, licenses and installations to software records.
//
// Each record is one unit of work. Units run on a pool of at most Workers
// goroutines; within a unit the fetches run in order: users, licenses,
// installations (each installation then enriched). A unit writes only to the
// record it was given, so callers must not add or remove registry keys, or
// touch the records being expanded, until Expand returns.
type Expander struct {
	Source   DetailSource
	Enricher *Enricher // nil leaves asset-derived fields empty
	Workers  int
	Hooks    observability.SyncHooks
	Logger   *log.Logger
}

// Expand runs one unit per record and blocks until all of them are done.
// Fetch failures are logged and leave the affected sub-collection with
// whatever was retrieved; they do not stop other units. The only error
// returned is the context's, when it was cancelled during the pass.
func (e *Expander) Expand(ctx context.Context, software []*registry.Software) error {
	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	hooks := e.Hooks
	if hooks == nil {
		hooks = observability.NoopSyncHooks{}
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, sw := range software {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			start := time.Now()
			e.expandOne(ctx, sw, hooks, logger)
			hooks.OnExpandComplete(ctx, sw.ID, time.Since(start))
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

func (e *Expander) expandOne(ctx context.Context, sw *registry.Software, hooks observability.SyncHooks, logger *log.Logger) {
	logger = logger.With("software", sw.ID)

	start := time.Now()
	users, err := e.Source.ApplicationUsers(ctx, sw.ID)
	hooks.OnFetchComplete(ctx, "application_users", len(users), time.Since(start), err)
	if err != nil {
		logger.Warn("users incomplete", "err", err)
	}
	sw.Users = newUsers(users)

	start = time.Now()
	licenses, err := e.Source.ApplicationLicenses(ctx, sw.ID)
	hooks.OnFetchComplete(ctx, "licenses", len(licenses), time.Since(start), err)
	if err != nil {
		logger.Warn("licenses incomplete", "err", err)
	}
	sw.Licenses = newLicenses(licenses)

	start = time.Now()
	installs, err := e.Source.Installations(ctx, sw.ID)
	hooks.OnFetchComplete(ctx, "installations", len(installs), time.Since(start), err)
	if err != nil {
		logger.Warn("installations incomplete", "err", err)
	}
	sw.Installs = make([]registry.Installation, 0, len(installs))
	for _, in := range installs {
		inst := newInstallation(in)
		if e.Enricher != nil {
			e.Enricher.Enrich(ctx, &inst)
		}
		sw.Installs = append(sw.Installs, inst)
	}

	logger.Debug("expanded",
		"users", len(sw.Users),
		"licenses", len(sw.Licenses),
		"installs", len(sw.Installs))
}
