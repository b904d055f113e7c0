// Package httputil provides shared HTTP plumbing for remote API clients:
// retry with exponential backoff and an error wrapper that marks transient
// failures as retryable.
package httputil
