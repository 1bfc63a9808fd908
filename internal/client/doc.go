// Package client is the HTTP client the judge CLI uses to submit code to a
// remote evaluation server. Requests carry the caller's trace headers, are
// retried on transient failures and pass through a circuit breaker.
package client
