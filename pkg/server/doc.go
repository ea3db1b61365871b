// Package server assembles the HTTP server for the export service: routes,
// middleware chain, TLS-free listener, and graceful shutdown.
package server
