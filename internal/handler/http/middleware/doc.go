// Package middleware holds the cross-cutting HTTP wrappers that sit in
// front of the API routes: CORS for the blog front end, client IP
// resolution behind trusted proxies, the login rate limiter and security
// headers.
package middleware
