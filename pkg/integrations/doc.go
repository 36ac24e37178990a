// Package integrations provides the shared HTTP client for remote REST APIs.
//
// # Overview
//
// [Client] performs one logical request as a sequence of physical attempts
// governed by an [httputil.Policy]. Each attempt carries the configured
// headers, a JSON content type, optional basic-auth credentials and the
// per-request timeout of the underlying http.Client.
//
// Responses are mapped onto errors that the retry policy understands:
//
//   - expected status: success, body decoded
//   - 404: [ErrNotFound], never retried
//   - 429: [errors.RateLimitedError] with the parsed Retry-After
//   - anything else, or a transport error: retryable [ErrNetwork]
//
// API-specific clients embed [Client]; see the [freshservice] subpackage.
//
// [httputil.Policy]: github.com/matzehuels/swcatalog/pkg/httputil.Policy
// [errors.RateLimitedError]: github.com/matzehuels/swcatalog/pkg/errors.RateLimitedError
// [freshservice]: github.com/matzehuels/swcatalog/pkg/integrations/freshservice
package integrations
