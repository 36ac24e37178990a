// Package pkg provides the libraries behind swcatalog, a tool that keeps a
// local snapshot of the Freshservice software catalog.
//
// # Overview
//
// The pkg directory is organized by concern:
//
//  1. [integrations] - HTTP client with retry, and the Freshservice API
//  2. [registry] - Vendor and software records and their snapshot store
//  3. [pipeline] - Orchestration (fetch, link, expand, enrich, prune)
//  4. [report] and [ticket] - Plain-text reports and tickets built from them
//  5. [cache], [errors], [httputil], [observability] - Supporting infrastructure
//
// # Architecture
//
// The data flow of a sync:
//
//	Freshservice /vendors, /applications (paginated)
//	         ↓
//	    [registry] (vendors linked to the software they publish)
//	         ↓
//	    [pipeline] expansion (users, licenses, installations per software,
//	                          installations enriched from /assets)
//	         ↓
//	    [cache] snapshot, [report] text, [ticket]
//
// [integrations]: github.com/matzehuels/swcatalog/pkg/integrations
// [registry]: github.com/matzehuels/swcatalog/pkg/registry
// [pipeline]: github.com/matzehuels/swcatalog/pkg/pipeline
// [report]: github.com/matzehuels/swcatalog/pkg/report
// [ticket]: github.com/matzehuels/swcatalog/pkg/ticket
// [cache]: github.com/matzehuels/swcatalog/pkg/cache
// [errors]: github.com/matzehuels/swcatalog/pkg/errors
// [httputil]: github.com/matzehuels/swcatalog/pkg/httputil
// [observability]: github.com/matzehuels/swcatalog/pkg/observability
package pkg
