// Package middleware provides the HTTP middleware chain for the export
// service: panic recovery, request logging, request IDs, CORS, and request
// timeouts.
package middleware
