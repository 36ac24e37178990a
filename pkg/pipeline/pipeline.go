// Package pipeline builds and maintains the software catalog.
//
// This package implements the sync pipeline shared by every CLI command:
// load vendors and software from the snapshot cache or the remote service,
// link software to its publishers, expand selected software with users,
// licenses and installations, and persist the result.
//
// # Stages
//
//  1. Load: vendors, then applications; the cache is used unless a refresh is
//     forced or the snapshot is empty
//  2. Link: every vendor's software list is rebuilt from publisher ids
//  3. Expand: per-software detail fetches on a bounded worker pool, followed
//     by a single snapshot write
//
// # Usage
//
//	runner := pipeline.NewRunner(client, store, logger)
//	reg, stats, err := runner.Build(ctx, pipeline.Options{Refresh: true, Expand: true})
//	if err != nil {
//	    return err
//	}
//	logger.Info("synced", "vendors", stats.Vendors, "software", stats.Software)
package pipeline

import "time"

// Options controls a [Runner.Build] call.
type Options struct {
	// Refresh ignores the snapshot cache and refetches everything.
	Refresh bool

	// Expand fetches users, licenses and installations after loading.
	Expand bool

	// SoftwareIDs limits expansion to these records. Empty means all.
	SoftwareIDs []string
}

// Stats describes one build.
type Stats struct {
	Vendors          int
	Software         int
	Expanded         int
	VendorCacheHit   bool
	SoftwareCacheHit bool
	LoadTime         time.Duration
	ExpandTime       time.Duration
}

// PruneResult lists what [Runner.Prune] did.
type PruneResult struct {
	Deleted []string // ids removed remotely (or that would be, on a dry run)
	InUse   int      // selected records skipped because they have users, installs or licenses
}
