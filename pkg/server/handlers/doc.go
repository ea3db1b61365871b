// Package handlers implements the HTTP handlers for the export service:
// the /export endpoint plus liveness and readiness probes.
package handlers
