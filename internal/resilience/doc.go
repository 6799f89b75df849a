// Package resilience groups the fault tolerance used around storage.
//
//   - circuitbreaker trips when PostgreSQL keeps failing, so requests fail
//     fast and /ready reports the open breaker.
//   - retry backs off while the API waits for PostgreSQL and Redis at startup.
//
// Usage:
//
//	breaker := circuitbreaker.NewDBCircuitBreaker(db)
//	articles := postgres.NewArticleRepo(breaker)
//
//	err := retry.WithBackoff(ctx, "ping redis", retry.StartupConfig(), func(ctx context.Context) error {
//	    return client.Ping(ctx).Err()
//	})
package resilience
