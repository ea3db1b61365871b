package export

import "fmt"

// ExportError represents a failure while serializing a result set.
type ExportError struct {
	Format   string // Export format ("csv", "json")
	RowCount int    // Number of rows in the set being exported
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, row_count=%d]: %v", e.Format, e.RowCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, rowCount int, cause error) *ExportError {
	return &ExportError{
		Format:   format,
		RowCount: rowCount,
		Cause:    cause,
	}
}
