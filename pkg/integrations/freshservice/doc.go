// Package freshservice provides a client for the Freshservice v2 REST API.
//
// # Overview
//
// The client covers the endpoints the software catalog needs:
//
//   - /vendors and /applications (paginated)
//   - /applications/{id}/users, /licenses, /installations (paginated)
//   - /assets/{display_id}?include=type_fields (single object)
//   - POST /tickets and DELETE /applications/{id}
//
// # Pagination
//
// Collection endpoints are walked with [FetchAll] using per_page/page query
// parameters. Each page goes through the retry policy of the embedded
// [integrations.Client], so a rate-limited page is retried in place and
// pagination never skips or repeats a page.
//
// # Usage
//
//	client, err := freshservice.NewClient(freshservice.Config{
//	    Domain: "acme.freshservice.com",
//	    APIKey: key,
//	}, nil)
//	apps, err := client.Applications(ctx)
//	if err != nil {
//	    // apps still holds every page fetched before the failure
//	    logger.Warn("application list truncated", "err", err)
//	}
//
// [integrations.Client]: github.com/matzehuels/swcatalog/pkg/integrations.Client
package freshservice
