package domain

import (
	"errors"
	"net/http"
)

// StatusError defines errors that can be mapped to client-facing status codes.
// Implementing this interface keeps the error taxonomy extensible without
// switch statements at the boundary.
type StatusError interface {
	error
	StatusCode() int
}

// Domain error types implementing StatusError
type (
	// NotFoundError indicates a resource was not found. It is also
	// returned when a resource exists but the actor has no read access,
	// so callers never learn about folders they cannot see.
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// ForbiddenError indicates the actor is known but lacks the required
	// capability on an existing, visible resource
	ForbiddenError struct {
		Message string
	}

	// InternalError indicates a consistency failure inside the tree
	// (e.g. a parent walk exceeding the depth bound). Detail is logged,
	// never exposed.
	InternalError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string  { return e.Message }
func (e *InternalError) Error() string   { return e.Message }

// StatusCode implementations (StatusError interface)
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *ForbiddenError) StatusCode() int  { return http.StatusForbidden }
func (e *InternalError) StatusCode() int   { return http.StatusInternalServerError }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrInternal   = errors.New("internal inconsistency")
)

// Is allows errors.Is() matching against the sentinels
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ForbiddenError) Is(target error) bool  { return target == ErrForbidden }
func (e *InternalError) Is(target error) bool   { return target == ErrInternal }

// ConflictError represents a resource conflict with details about the existing
// resource (sibling name collision, self-parenting, re-parent into own
// descendant, scope mismatch).
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, note, file)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the StatusError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
