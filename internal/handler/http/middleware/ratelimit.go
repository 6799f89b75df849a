package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"typoteka/internal/handler/http/respond"
	"typoteka/internal/observability/metrics"

	"golang.org/x/time/rate"
)

// RateLimitConfig is a per-client token bucket.
type RateLimitConfig struct {
	// PerMinute is the sustained number of requests a client may make.
	PerMinute float64 `yaml:"per_minute"`
	// Burst is how many requests may arrive at once.
	Burst int `yaml:"burst"`
	// IdleTTL is how long a client's bucket is kept after its last request.
	IdleTTL time.Duration `yaml:"idle_ttl"`
}

// DefaultLoginRateLimit allows 5 logins per minute with bursts of 5.
func DefaultLoginRateLimit() RateLimitConfig {
	return RateLimitConfig{PerMinute: 5, Burst: 5, IdleTTL: 10 * time.Minute}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	cfg     RateLimitConfig
	proxies TrustedProxies
	name    string

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter creates a limiter; name labels its metrics and logs.
func NewRateLimiter(name string, cfg RateLimitConfig, proxies TrustedProxies) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	return &RateLimiter{
		cfg:      cfg,
		proxies:  proxies,
		name:     name,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.cfg.PerMinute/60), rl.cfg.Burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Limit answers 429 with Retry-After once a client's bucket is empty.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.proxies.ClientIP(r)
		if !rl.limiterFor(ip).AllowN(rl.now(), 1) {
			metrics.RecordRateLimited(rl.name)
			slog.Warn("rate limit exceeded",
				slog.String("limiter", rl.name),
				slog.String("client_ip", ip),
				slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
			respond.Message(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfter is the time one token takes to refill, in whole seconds.
func (rl *RateLimiter) retryAfter() int {
	if rl.cfg.PerMinute <= 0 {
		return 60
	}
	return int(math.Ceil(60 / rl.cfg.PerMinute))
}

// Cleanup drops buckets idle for longer than IdleTTL and returns how many
// were removed.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.cfg.IdleTTL)
	removed := 0
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

// Size is the number of tracked clients.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// RunCleanup calls Cleanup every interval until ctx is cancelled.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Cleanup(); n > 0 {
				slog.Debug("rate limit cleanup completed",
					slog.String("limiter", rl.name),
					slog.Int("removed", n))
			}
		}
	}
}
