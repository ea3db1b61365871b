package storage

import "fmt"

// StorageError represents a failure in the database layer. Its text is for
// logs only; HTTP responses carry a generic message so driver errors,
// hostnames, and credentials never reach clients.
type StorageError struct {
	Backend   string // Driver name ("mysql", "sqlite")
	Operation string // Operation that failed ("open", "query", "ping", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
