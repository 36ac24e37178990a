package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
	"github.com/matzehuels/swcatalog/pkg/integrations"
	"github.com/matzehuels/swcatalog/pkg/observability"
	"github.com/matzehuels/swcatalog/pkg/registry"
)

// Runner encapsulates pipeline execution with caching.
//
// A Runner holds no catalog state of its own: every call works on the
// [registry.Registry] it returns or is given.
type Runner struct {
	Source   Source
	Store    *registry.Store
	Enricher *Enricher
	Hooks    observability.SyncHooks
	Logger   *log.Logger
	Workers  int
	RunID    string
}

// NewRunner creates a runner with a fresh run id. The logger is tagged with
// that id. If store is nil, caching is disabled.
func NewRunner(src Source, store *registry.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if store == nil {
		store = registry.NewStore(nil, logger)
	}
	runID := uuid.NewString()
	logger = logger.With("run", runID[:8])
	return &Runner{
		Source:   src,
		Store:    store,
		Enricher: NewEnricher(src, "", logger),
		Hooks:    observability.NoopSyncHooks{},
		Logger:   logger,
		Workers:  DefaultWorkers,
		RunID:    runID,
	}
}

// Build loads vendors and software, links them and optionally expands.
// Remote failures degrade to partial data; the returned error is non-nil
// only when ctx is cancelled or a requested software id is unknown.
func (r *Runner) Build(ctx context.Context, opts Options) (*registry.Registry, Stats, error) {
	var stats Stats
	reg := registry.New()

	start := time.Now()
	reg.Vendors, stats.VendorCacheHit = r.LoadVendors(ctx, opts.Refresh)
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	reg.Software, stats.SoftwareCacheHit = r.LoadSoftware(ctx, opts.Refresh)
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	reg.Link()
	stats.LoadTime = time.Since(start)
	stats.Vendors = len(reg.Vendors)
	stats.Software = len(reg.Software)

	r.Logger.Info("loaded catalog",
		"vendors", stats.Vendors,
		"software", stats.Software,
		"duration", stats.LoadTime.Round(time.Millisecond))

	if opts.Expand {
		start = time.Now()
		n, err := r.Expand(ctx, reg, opts.SoftwareIDs)
		if err != nil {
			return nil, stats, err
		}
		stats.Expanded = n
		stats.ExpandTime = time.Since(start)
	}
	return reg, stats, nil
}

// LoadVendors returns the vendor map and whether it came from the cache.
// The cache is skipped when refresh is set or the snapshot is empty; a
// remote fetch replaces the map wholesale and is saved when complete.
func (r *Runner) LoadVendors(ctx context.Context, refresh bool) (map[string]*registry.Vendor, bool) {
	if !refresh {
		if vendors := r.Store.LoadVendors(ctx); len(vendors) > 0 {
			if _, ok := vendors[registry.Unregistered]; !ok {
				vendors[registry.Unregistered] = registry.NewUnregisteredVendor()
			}
			return vendors, true
		}
	}

	start := time.Now()
	fetched, err := r.Source.Vendors(ctx)
	r.hooks().OnFetchComplete(ctx, "vendors", len(fetched), time.Since(start), err)

	vendors := map[string]*registry.Vendor{registry.Unregistered: registry.NewUnregisteredVendor()}
	for _, v := range fetched {
		vendors[v.ID.String()] = newVendor(v)
	}
	if err != nil {
		r.Logger.Warn("vendor list incomplete, not caching", "fetched", len(fetched), "err", err)
		return vendors, false
	}
	r.Store.SaveVendors(ctx, vendors)
	return vendors, false
}

// LoadSoftware returns the software map and whether it came from the cache.
// It follows the same rules as LoadVendors.
func (r *Runner) LoadSoftware(ctx context.Context, refresh bool) (map[string]*registry.Software, bool) {
	if !refresh {
		if software := r.Store.LoadSoftware(ctx); len(software) > 0 {
			return software, true
		}
	}

	start := time.Now()
	fetched, err := r.Source.Applications(ctx)
	r.hooks().OnFetchComplete(ctx, "applications", len(fetched), time.Since(start), err)

	software := make(map[string]*registry.Software, len(fetched))
	for _, a := range fetched {
		sw := newSoftware(a)
		software[sw.ID] = sw
	}
	if err != nil {
		r.Logger.Warn("application list incomplete, not caching", "fetched", len(fetched), "err", err)
		return software, false
	}
	r.Store.SaveSoftware(ctx, software)
	return software, false
}

// Expand expands the given software (all when ids is empty) and then saves
// the software snapshot once. It returns the number of records expanded.
// Nothing is saved when ctx is cancelled before every unit finished.
func (r *Runner) Expand(ctx context.Context, reg *registry.Registry, ids []string) (int, error) {
	targets, err := r.selectSoftware(reg, ids)
	if err != nil {
		return 0, err
	}
	if len(targets) == 0 {
		return 0, nil
	}

	r.Logger.Info("expanding software", "count", len(targets), "workers", r.workers())
	exp := &Expander{
		Source:   r.Source,
		Enricher: r.Enricher,
		Workers:  r.workers(),
		Hooks:    r.hooks(),
		Logger:   r.Logger,
	}
	if err := exp.Expand(ctx, targets); err != nil {
		return 0, err
	}

	r.Store.SaveSoftware(ctx, reg.Software)
	return len(targets), nil
}

// Prune deletes selected software (all when ids is empty) that has no users,
// installations or licenses. reg must have been expanded for those ids.
// Software already gone remotely counts as deleted. Deletion stops at the
// first other failure; records deleted up to that point are removed from
// reg and the snapshot is saved either way. With dryRun nothing
// is deleted and reg is left unchanged.
func (r *Runner) Prune(ctx context.Context, reg *registry.Registry, ids []string, dryRun bool) (PruneResult, error) {
	var res PruneResult
	targets, err := r.selectSoftware(reg, ids)
	if err != nil {
		return res, err
	}

	var unused []*registry.Software
	for _, sw := range targets {
		if sw.Unused() {
			unused = append(unused, sw)
		} else {
			res.InUse++
		}
	}
	if dryRun {
		for _, sw := range unused {
			r.Logger.Info("would delete", "software", sw.ID, "name", sw.Name, "vendor", r.vendorName(reg, sw))
			res.Deleted = append(res.Deleted, sw.ID)
		}
		return res, nil
	}

	var deleteErr error
	for _, sw := range unused {
		err := r.Source.DeleteApplication(ctx, sw.ID)
		if errors.Is(err, integrations.ErrNotFound) {
			r.Logger.Info("already deleted", "software", sw.ID, "name", sw.Name)
			res.Deleted = append(res.Deleted, sw.ID)
			continue
		}
		if err != nil {
			r.Logger.Error("could not delete", "software", sw.ID, "name", sw.Name, "vendor", r.vendorName(reg, sw), "err", err)
			deleteErr = errs.Wrap(errs.ErrCodeRejected, err, "delete software %s", sw.ID)
			break
		}
		r.Logger.Info("deleted", "software", sw.ID, "name", sw.Name, "vendor", r.vendorName(reg, sw))
		res.Deleted = append(res.Deleted, sw.ID)
	}

	if len(res.Deleted) > 0 {
		for _, id := range res.Deleted {
			delete(reg.Software, id)
		}
		reg.Link()
		r.Store.SaveSoftware(ctx, reg.Software)
	}
	return res, deleteErr
}

func (r *Runner) selectSoftware(reg *registry.Registry, ids []string) ([]*registry.Software, error) {
	if len(ids) == 0 {
		ids = reg.SoftwareIDs()
	}
	out := make([]*registry.Software, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		sw, ok := reg.Software[id]
		if !ok {
			return nil, errs.New(errs.ErrCodeNotFound, "software %s is not in the catalog", id)
		}
		out = append(out, sw)
	}
	return out, nil
}

func (r *Runner) vendorName(reg *registry.Registry, sw *registry.Software) string {
	if v := reg.Publisher(sw); v != nil {
		return v.Name
	}
	return registry.Unregistered
}

func (r *Runner) workers() int {
	if r.Workers <= 0 {
		return DefaultWorkers
	}
	return r.Workers
}

func (r *Runner) hooks() observability.SyncHooks {
	if r.Hooks == nil {
		return observability.NoopSyncHooks{}
	}
	return r.Hooks
}
