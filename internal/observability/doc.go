// Package observability groups the logging, metrics and tracing packages used
// by the API process.
package observability
