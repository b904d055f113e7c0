// Package github provides a typed client for the public GitHub REST API.
//
// The client covers the read-only endpoints the pipeline needs: repository
// metadata, paginated release listings (with asset download counters),
// commit and contributor listings, per-language byte counts, and the latest
// release. All requests are unauthenticated GETs unless a token is supplied.
//
// Transient failures (network errors, 5xx responses) are wrapped as
// retryable so callers can apply backoff; 404s map to [ErrNotFound].
package github
