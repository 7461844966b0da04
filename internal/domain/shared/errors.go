package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound       = NewDomainError("NOT_FOUND", "Resource not found")
	ErrNotImplemented = NewDomainError("NOT_IMPLEMENTED", "Operation is not implemented")
)

// DuplicateKeyError is returned by repositories when a write collides with a
// unique index. Field names the document attribute covered by that index.
type DuplicateKeyError struct {
	Field string
	Err   error
}

// Error implements the error interface
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on %q: %v", e.Field, e.Err)
}

// Unwrap returns the underlying store error
func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

// NewDuplicateKeyError creates a duplicate key error for the given field
func NewDuplicateKeyError(field string, err error) *DuplicateKeyError {
	return &DuplicateKeyError{Field: field, Err: err}
}
