package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling in the
// handler layer without per-error switch statements.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates the caller is not allowed to act on
	// the resource (missing identity or owner mismatch)
	UnauthorizedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Is implementations so errors.Is() matches the sentinel forms below
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidParent    = errors.New("invalid parent")
	ErrPartialTraversal = errors.New("partial traversal")
)

// InvalidParentError indicates that a create request referenced a parent
// document that does not exist or belongs to a different owner.
// Implements HTTPError interface.
type InvalidParentError struct {
	ParentID string
}

// Error implements the error interface
func (e *InvalidParentError) Error() string {
	return fmt.Sprintf("parent document %s does not exist or is not owned by the caller", e.ParentID)
}

// StatusCode implements the HTTPError interface
func (e *InvalidParentError) StatusCode() int {
	return http.StatusBadRequest
}

// Is allows errors.Is() to match against ErrInvalidParent
func (e *InvalidParentError) Is(target error) bool {
	return target == ErrInvalidParent
}

// PartialTraversalError indicates that a recursive archive or restore
// aborted after the root mark was applied, leaving the subtree in a mixed
// state. Per-node marking is idempotent, so re-invoking the same operation
// on the same root completes the closure.
type PartialTraversalError struct {
	Op     string // "archive" or "restore"
	RootID string
	Err    error
}

// Error implements the error interface
func (e *PartialTraversalError) Error() string {
	return fmt.Sprintf("%s of document %s applied partially: %v", e.Op, e.RootID, e.Err)
}

// Unwrap exposes the underlying cause
func (e *PartialTraversalError) Unwrap() error {
	return e.Err
}

// StatusCode implements the HTTPError interface
func (e *PartialTraversalError) StatusCode() int {
	return http.StatusInternalServerError
}

// Is allows errors.Is() to match against ErrPartialTraversal
func (e *PartialTraversalError) Is(target error) bool {
	return target == ErrPartialTraversal
}
