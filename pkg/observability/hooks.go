// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without hard-wiring a
// backend into the sync pipeline. Hooks are carried explicitly in a [Hooks]
// value owned by the caller and handed to the HTTP client, the snapshot
// store and the pipeline runner; there is no process-wide registry.
//
// # Usage
//
//	metrics := observability.NewMetrics()
//	hooks := observability.Combine(observability.NewLogHooks(logger), metrics.Hooks())
//	client := freshservice.NewClient(cfg, hooks.HTTP)
//	// ... run the sync
//	_ = metrics.WriteTextfile("/var/lib/node_exporter/swcatalog.prom")
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Sync Hooks
// =============================================================================

// SyncHooks receives events from the sync pipeline.
type SyncHooks interface {
	// OnFetchComplete records a finished collection fetch (vendors, applications,
	// users, licenses, installations).
	OnFetchComplete(ctx context.Context, collection string, records int, duration time.Duration, err error)

	// OnExpandComplete records one finished software expansion unit.
	OnExpandComplete(ctx context.Context, softwareID string, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from snapshot store operations.
type CacheHooks interface {
	// OnCacheHit records a snapshot load that returned data.
	OnCacheHit(ctx context.Context, kind string)

	// OnCacheMiss records a snapshot load that found nothing usable.
	OnCacheMiss(ctx context.Context, kind string)

	// OnCacheSet records a snapshot write.
	OnCacheSet(ctx context.Context, kind string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request attempt.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP transport error (network failure, timeout).
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSyncHooks is a no-op implementation of SyncHooks.
type NoopSyncHooks struct{}

func (NoopSyncHooks) OnFetchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopSyncHooks) OnExpandComplete(context.Context, string, time.Duration)            {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Hook Sets
// =============================================================================

// Hooks bundles one implementation of each hook category.
type Hooks struct {
	Sync  SyncHooks
	Cache CacheHooks
	HTTP  HTTPHooks
}

// Combine fans every event out to all given hook sets, in order.
// Nil categories inside a set are skipped.
func Combine(sets ...Hooks) Hooks {
	var m multi
	for _, s := range sets {
		if s.Sync != nil {
			m.sync = append(m.sync, s.Sync)
		}
		if s.Cache != nil {
			m.cache = append(m.cache, s.Cache)
		}
		if s.HTTP != nil {
			m.http = append(m.http, s.HTTP)
		}
	}
	return Hooks{Sync: m, Cache: m, HTTP: m}
}

type multi struct {
	sync  []SyncHooks
	cache []CacheHooks
	http  []HTTPHooks
}

func (m multi) OnFetchComplete(ctx context.Context, collection string, records int, d time.Duration, err error) {
	for _, h := range m.sync {
		h.OnFetchComplete(ctx, collection, records, d, err)
	}
}

func (m multi) OnExpandComplete(ctx context.Context, softwareID string, d time.Duration) {
	for _, h := range m.sync {
		h.OnExpandComplete(ctx, softwareID, d)
	}
}

func (m multi) OnCacheHit(ctx context.Context, kind string) {
	for _, h := range m.cache {
		h.OnCacheHit(ctx, kind)
	}
}

func (m multi) OnCacheMiss(ctx context.Context, kind string) {
	for _, h := range m.cache {
		h.OnCacheMiss(ctx, kind)
	}
}

func (m multi) OnCacheSet(ctx context.Context, kind string, size int) {
	for _, h := range m.cache {
		h.OnCacheSet(ctx, kind, size)
	}
}

func (m multi) OnRequest(ctx context.Context, method, path string) {
	for _, h := range m.http {
		h.OnRequest(ctx, method, path)
	}
}

func (m multi) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	for _, h := range m.http {
		h.OnResponse(ctx, method, path, status, d)
	}
}

func (m multi) OnError(ctx context.Context, method, path string, err error) {
	for _, h := range m.http {
		h.OnError(ctx, method, path, err)
	}
}
