// Package observability defines the Prometheus metrics the server exports
// on /metrics.
package observability
