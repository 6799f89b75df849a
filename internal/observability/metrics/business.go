package metrics

import (
	"time"
)

// RecordArticleEvent counts a successful article mutation.
func RecordArticleEvent(operation string) {
	ArticleEventsTotal.WithLabelValues(operation).Inc()
}

// RecordCommentEvent counts a successful comment mutation.
func RecordCommentEvent(operation string) {
	CommentEventsTotal.WithLabelValues(operation).Inc()
}

// RecordGuardRejection counts a request stopped by a guard step.
// outcome is the guard outcome name (bad_request, not_found, ...).
func RecordGuardRejection(operation, outcome string) {
	GuardRejectionsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordSearch records how many articles a search returned.
func RecordSearch(results int) {
	result := "hit"
	if results == 0 {
		result = "miss"
	}
	SearchQueriesTotal.WithLabelValues(result).Inc()
	SearchResults.Observe(float64(results))
}

// RecordLogin records a login attempt. result is success, failure or error.
func RecordLogin(result string) {
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordRateLimited counts a request refused by the named limiter.
func RecordRateLimited(limiter string) {
	RateLimitedTotal.WithLabelValues(limiter).Inc()
}

// RecordUserRegistered counts a new account.
func RecordUserRegistered(role string) {
	UsersRegisteredTotal.WithLabelValues(role).Inc()
}

// RecordFlash records a flash store operation (put, take) and its result
// (stored, hit, miss, error).
func RecordFlash(operation, result string) {
	FlashOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordDBQuery records the duration of a storage call.
// Operation should describe the call (e.g. "list_articles", "count_articles").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
