// Package export implements the core of the attendance export service:
// translating caller-supplied filter parameters into a parameterized SQL
// query, materializing the result rows, and serializing them as CSV or JSON.
//
// The package is deliberately free of HTTP and database driver concerns.
// Handlers parse filters from the request, the storage layer executes the
// built query, and the exporters here write the materialized RowSet to the
// response body.
package export
