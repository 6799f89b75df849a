package http

import (
	"net/http"

	"typoteka/internal/handler/http/respond"
)

// Request limits enforced by InputValidation.
const (
	MaxAuthorizationHeader = 8 << 10
	MaxPathLength          = 2 << 10
	MaxBodyBytes           = 1 << 20
)

// InputValidation rejects oversized headers and paths and caps the body.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) > MaxAuthorizationHeader {
				respond.Message(w, http.StatusBadRequest, "authorization header too large")
				return
			}
			if len(r.URL.Path) > MaxPathLength {
				respond.Message(w, http.StatusRequestURITooLong, "URI too long")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}
