// Package auth binds token verification and login to HTTP.
package auth

import (
	"log/slog"
	"net/http"
	"time"

	"typoteka/internal/handler/http/respond"
	"typoteka/internal/observability/logging"
	authservice "typoteka/internal/service/auth"
)

// TokenVerifier checks an Authorization header value.
type TokenVerifier interface {
	VerifyToken(raw string) (*authservice.Claims, error)
}

// Require rejects requests without a valid token and puts the verified
// claims into the request context for the services to read. The header may
// carry "Bearer <jwt>" or the bare token.
func Require(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			claims, err := verifier.VerifyToken(r.Header.Get("Authorization"))
			RecordAuthzCheckDuration(time.Since(start).Seconds())
			if err != nil {
				reason := "invalid"
				if r.Header.Get("Authorization") == "" {
					reason = "missing"
				}
				RecordTokenRejection(reason)
				logging.FromContext(r.Context()).Warn("token rejected",
					slog.String("reason", reason),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				respond.Error(w, r, err)
				return
			}

			ctx := authservice.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
