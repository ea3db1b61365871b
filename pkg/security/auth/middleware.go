package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// KeySource defines where to extract API keys from.
type KeySource struct {
	Type string // "header" or "query"
	Name string // header name or query parameter
}

// Middleware is HTTP middleware enforcing the API key check. Requests that
// fail the check are rejected before any database work happens.
type Middleware struct {
	validator *Validator
	sources   []KeySource
}

// NewMiddleware creates API key middleware with the given extraction
// sources, tried in order.
func NewMiddleware(validator *Validator, sources []KeySource) *Middleware {
	return &Middleware{
		validator: validator,
		sources:   sources,
	}
}

// Handle wraps an HTTP handler with the API key check.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := m.extractKey(r)
		if err != nil {
			slog.Warn("missing API key",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			writeUnauthorized(w, "missing API key")
			return
		}

		if err := m.validator.Validate(key); err != nil {
			slog.Warn("invalid API key",
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			writeUnauthorized(w, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractKey extracts the API key from the request using the configured
// sources in order.
func (m *Middleware) extractKey(r *http.Request) (string, error) {
	for _, source := range m.sources {
		switch source.Type {
		case "header":
			if value := r.Header.Get(source.Name); value != "" {
				return value, nil
			}
		case "query":
			if value := r.URL.Query().Get(source.Name); value != "" {
				return value, nil
			}
		}
	}
	return "", fmt.Errorf("no API key found")
}

// writeUnauthorized writes the 401 response with a short JSON body.
func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
