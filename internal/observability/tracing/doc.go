// Package tracing wires OpenTelemetry into the API: a server span per HTTP
// request and child spans around use case operations.
package tracing
