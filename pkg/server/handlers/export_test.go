package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"schoolpulse/exportd/pkg/config"
	"schoolpulse/exportd/pkg/export"
	"schoolpulse/exportd/pkg/storage"
)

// setupExportHandler seeds an in-memory database and wires the handler to
// a query shaped like the production one: joined filter columns, stable
// ordering, bound arguments only.
func setupExportHandler(t *testing.T) (*ExportHandler, *storage.Database) {
	t.Helper()

	db, err := storage.Open(&storage.Config{
		Driver:       storage.DriverSQLite,
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
		MaxOpenConns: 2,
		MaxIdleConns: 2,
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	statements := []string{
		`CREATE TABLE schools (
			udise_id INTEGER,
			school_name TEXT,
			district TEXT,
			block TEXT,
			school_type_id INTEGER,
			geography TEXT,
			total_students INTEGER
		)`,
		`INSERT INTO schools VALUES (1001, 'ADARSHA LP SCHOOL', 'CHIRANG', 'SIDLI', 1, 'RURAL', 140)`,
		`INSERT INTO schools VALUES (1002, 'BENGTAL UP SCHOOL', 'CHIRANG', 'BENGTAL', 2, 'RURAL', 210)`,
		`INSERT INTO schools VALUES (1003, 'KAMRUP TOWN HS', 'KAMRUP', 'GUWAHATI', 3, 'URBAN', 560)`,
		`INSERT INTO schools VALUES (1004, 'KAMRUP HSS', 'KAMRUP', 'GUWAHATI', 4, 'URBAN', 720)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(ctx, stmt); err != nil {
			t.Fatalf("Failed to seed database: %v", err)
		}
	}

	builder := &export.Builder{
		Base: `SELECT udise_id, school_name, district, block, total_students FROM schools WHERE 1=1`,
		Filters: []export.Filter{
			{Param: "district", Column: "district"},
			{Param: "block", Column: "block"},
			{Param: "geography", Column: "geography"},
			{Param: "school_type", Column: "school_type_id"},
		},
		Order: "udise_id",
	}

	handler := NewExportHandler(db, builder, config.ExportConfig{Filename: "export.csv"}, nil)
	return handler, db
}

func doExport(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func csvLines(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	return strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
}

func TestExportUnfilteredCSV(t *testing.T) {
	handler, _ := setupExportHandler(t)

	rec := doExport(t, handler, "/export")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected Content-Type: %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="export.csv"` {
		t.Errorf("unexpected Content-Disposition: %q", cd)
	}

	lines := csvLines(t, rec)
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d lines", len(lines))
	}
	if lines[0] != "udise_id,school_name,district,block,total_students" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// Stable ORDER BY keeps rows in udise_id order.
	for i, wantPrefix := range []string{"1001,", "1002,", "1003,", "1004,"} {
		if !strings.HasPrefix(lines[i+1], wantPrefix) {
			t.Errorf("row %d = %q, want prefix %q", i, lines[i+1], wantPrefix)
		}
	}
}

func TestExportFilteredSubset(t *testing.T) {
	handler, _ := setupExportHandler(t)

	rec := doExport(t, handler, "/export?district=CHIRANG&school_type=LP,UP")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	lines := csvLines(t, rec)
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[1], "1001,") || !strings.HasPrefix(lines[2], "1002,") {
		t.Errorf("unexpected filtered rows: %v", lines[1:])
	}
}

func TestExportJSONFormat(t *testing.T) {
	handler, _ := setupExportHandler(t)

	rec := doExport(t, handler, "/export?format=json&district=KAMRUP")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected Content-Type: %q", ct)
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Errorf("JSON response must not be an attachment")
	}

	var decoded []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(decoded))
	}
	if decoded[0]["school_name"] != "KAMRUP TOWN HS" {
		t.Errorf("unexpected first object: %v", decoded[0])
	}
}

func TestExportEmptyResult(t *testing.T) {
	handler, _ := setupExportHandler(t)

	t.Run("csv header only", func(t *testing.T) {
		rec := doExport(t, handler, "/export?district=NOWHERE")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "udise_id,school_name,district,block,total_students\n" {
			t.Errorf("expected header-only CSV, got %q", rec.Body.String())
		}
	})

	t.Run("json empty array", func(t *testing.T) {
		rec := doExport(t, handler, "/export?district=NOWHERE&format=json")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "[]" {
			t.Errorf("expected empty array, got %q", rec.Body.String())
		}
	})
}

func TestExportUnknownFormat(t *testing.T) {
	handler, db := setupExportHandler(t)

	rec := doExport(t, handler, "/export?format=xml")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if !strings.Contains(body["error"], "xml") {
		t.Errorf("error should name the rejected format: %q", body["error"])
	}

	if got := db.Stats().InUse; got != 0 {
		t.Errorf("no query should run for an invalid format, yet %d connections in use", got)
	}
}

func TestExportDatabaseError(t *testing.T) {
	handler, db := setupExportHandler(t)

	// Closing the pool makes the next query fail the way an unreachable
	// server would.
	db.Close()

	rec := doExport(t, handler, "/export?district=CHIRANG")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if body["error"] != "database error" {
		t.Errorf("expected generic message, got %q", body["error"])
	}
	// The body must not leak backend details.
	lower := strings.ToLower(rec.Body.String())
	for _, leak := range []string{"sqlite", "sql:", "schools"} {
		if strings.Contains(lower, leak) {
			t.Errorf("error body leaks backend detail %q: %s", leak, rec.Body.String())
		}
	}

	if got := db.Stats().InUse; got != 0 {
		t.Errorf("expected 0 connections in use after failure, got %d", got)
	}
}

func TestExportIdempotent(t *testing.T) {
	handler, _ := setupExportHandler(t)

	first := doExport(t, handler, "/export?district=CHIRANG&format=json")
	second := doExport(t, handler, "/export?district=CHIRANG&format=json")

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200s, got %d and %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("repeated identical requests returned different bodies")
	}
}

func TestExportMethodNotAllowed(t *testing.T) {
	handler, _ := setupExportHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/export", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestExportReleasesConnections(t *testing.T) {
	handler, db := setupExportHandler(t)

	for i := 0; i < 10; i++ {
		rec := doExport(t, handler, "/export?geography=URBAN")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	if got := db.Stats().InUse; got != 0 {
		t.Errorf("expected 0 connections in use after 10 requests, got %d", got)
	}
}
