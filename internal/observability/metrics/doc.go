// Package metrics holds the Prometheus collectors of the API: HTTP traffic,
// content events and database pool usage. Everything registers with the
// default registry and is served on /metrics.
//
//	metrics.RecordArticleEvent("create")
//	metrics.RecordSearch(len(results))
package metrics
