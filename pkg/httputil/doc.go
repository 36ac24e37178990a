// Package httputil provides the retry policy used by every Freshservice request.
//
// # Retry
//
// [Policy] wraps one logical request with a bounded number of physical attempts:
//
//   - Transient failures (network errors, unexpected status codes) are wrapped
//     with [Retryable] and consume one attempt each, separated by a fixed backoff.
//   - HTTP 429 responses surface as [errors.RateLimitedError]; the policy waits
//     exactly the server's Retry-After and tries again without consuming an attempt.
//   - Everything else, including "not found", is returned immediately.
//
// Usage:
//
//	p := httputil.Policy{Attempts: 3, Backoff: time.Second}
//	err := p.Do(ctx, func() error {
//	    return client.fetchOnce(ctx, url)
//	})
//
// The Sleep field lets tests substitute a recording clock for real waits.
//
// [errors.RateLimitedError]: github.com/matzehuels/swcatalog/pkg/errors.RateLimitedError
package httputil
