package errors

import (
	"strings"
	"unicode"
)

// ValidateID validates a remote entity identifier supplied by a user.
// Freshservice identifiers are decimal numbers; the UNREGISTERED vendor
// sentinel is also accepted.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}
	if id == "UNREGISTERED" {
		return nil
	}
	if len(id) > 20 {
		return New(ErrCodeInvalidID, "id too long (max 20 digits): %q", id)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidID, "id must be numeric: %q", id)
		}
	}
	return nil
}

// ValidateDomain validates a Freshservice domain such as "acme.freshservice.com".
// It must be a bare host name: no scheme, path, port or whitespace.
func ValidateDomain(domain string) error {
	if domain == "" {
		return New(ErrCodeInvalidDomain, "domain cannot be empty")
	}

	const maxDomainLength = 253
	if len(domain) > maxDomainLength {
		return New(ErrCodeInvalidDomain, "domain too long (max %d characters)", maxDomainLength)
	}

	if strings.Contains(domain, "://") {
		return New(ErrCodeInvalidDomain, "domain must not include a scheme: %q", domain)
	}

	for _, r := range domain {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidDomain, "domain contains invalid characters")
		}
		if r == '/' || r == ':' || r == '?' || r == '#' || r == '@' {
			return New(ErrCodeInvalidDomain, "domain must be a bare host name: %q", domain)
		}
	}

	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
		return New(ErrCodeInvalidDomain, "domain has an empty label: %q", domain)
	}

	return nil
}
