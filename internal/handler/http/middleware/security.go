package middleware

import (
	"net/http"
	"strings"
)

// apiCSP forbids every fetch: responses are JSON and never rendered.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// swaggerCSP lets the bundled Swagger UI load its own inline scripts and styles.
const swaggerCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; " +
	"style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self' data:; " +
	"connect-src 'self'; frame-ancestors 'none'; base-uri 'self'; object-src 'none'"

// SwaggerPrefix is where the API documentation is served.
const SwaggerPrefix = "/swagger/"

// SecurityHeaders sets the headers every response carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if strings.HasPrefix(r.URL.Path, SwaggerPrefix) {
			h.Set("Content-Security-Policy", swaggerCSP)
		} else {
			h.Set("Content-Security-Policy", apiCSP)
		}
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
