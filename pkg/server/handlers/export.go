package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"schoolpulse/exportd/pkg/config"
	"schoolpulse/exportd/pkg/export"
	"schoolpulse/exportd/pkg/server/middleware"
	"schoolpulse/exportd/pkg/storage"
	"schoolpulse/exportd/pkg/telemetry/metrics"
)

// ExportHandler serves GET /export: it translates the recognized filter
// parameters into a parameterized query, executes it, and writes the result
// set as a CSV attachment or a JSON array.
//
// Each request is independent: validate, build, execute, serialize, respond.
// Failures are terminal for the request; there is no retry and no partial
// result.
type ExportHandler struct {
	db      *storage.Database
	builder *export.Builder
	cfg     config.ExportConfig
	metrics *metrics.ExportMetrics
}

// NewExportHandler creates the export handler. metrics may be nil when the
// metrics endpoint is disabled.
func NewExportHandler(db *storage.Database, builder *export.Builder, cfg config.ExportConfig, em *metrics.ExportMetrics) *ExportHandler {
	return &ExportHandler{
		db:      db,
		builder: builder,
		cfg:     cfg,
		metrics: em,
	}
}

// ServeHTTP implements http.Handler.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()
	ctx := r.Context()
	query := r.URL.Query()

	format, err := export.ParseFormat(query.Get("format"))
	if err != nil {
		// Reject rather than silently fall back to CSV.
		writeError(w, http.StatusBadRequest, err.Error())
		h.record("invalid", "invalid_request", start, -1)
		return
	}

	filters := export.ParseFilterSet(query)
	sqlText, args := h.builder.Build(filters)

	rs, err := h.db.QueryRowSet(ctx, sqlText, args...)
	if err != nil {
		slog.ErrorContext(ctx, "export query failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
			"filters", filters.Len(),
		)
		writeError(w, http.StatusInternalServerError, "database error")
		h.record(string(format), "error", start, -1)
		return
	}

	slog.DebugContext(ctx, "export query completed",
		"rows", rs.Len(),
		"filters", filters.Len(),
		"format", string(format),
	)

	// Serialize into a buffer first so a serialization failure can still
	// produce a 500 instead of a truncated 200.
	var buf bytes.Buffer
	switch format {
	case export.FormatJSON:
		err = export.NewJSONExporter(h.cfg.PrettyJSON).Export(ctx, rs, &buf)
	default:
		err = export.NewCSVExporter(true).Export(ctx, rs, &buf)
	}
	if err != nil {
		slog.ErrorContext(ctx, "export serialization failed", "error", err)
		writeError(w, http.StatusInternalServerError, "serialization error")
		h.record(string(format), "error", start, rs.Len())
		return
	}

	switch format {
	case export.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.cfg.Filename))
	}
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	h.record(string(format), "success", start, rs.Len())
}

// record reports request metrics when the collector is wired.
func (h *ExportHandler) record(format, status string, start time.Time, rows int) {
	if h.metrics != nil {
		h.metrics.RecordRequest(format, status, time.Since(start), rows)
	}
}

// writeError writes a short JSON error body. Messages stay generic:
// database failures must not leak driver text, hostnames, or credentials
// to callers.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
