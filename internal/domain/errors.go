package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies domain errors so the transport boundary can map them
// to status codes without string matching.
type ErrorCode string

const (
	CodeNotFound       ErrorCode = "not_found"
	CodeValidation     ErrorCode = "validation_error"
	CodeNoAvailability ErrorCode = "no_availability"
	CodeConflict       ErrorCode = "conflict"
	CodeUnavailable    ErrorCode = "unavailable"
)

// Error is the domain error type carried across layers.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewNotFoundError reports that an entity with the given identifier does not exist.
func NewNotFoundError(entity, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

// NewValidationError reports invalid input detected before any mutation.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewNoAvailabilityError reports a seat reservation against a fully booked route.
func NewNoAvailabilityError(routeID string) *Error {
	return &Error{
		Code:    CodeNoAvailability,
		Message: fmt.Sprintf("no available seats on route %s", routeID),
	}
}

// NewConflictError reports a concurrent-modification conflict.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewUnavailableError reports that a backing store or service is unreachable.
func NewUnavailableError(message string) *Error {
	return &Error{Code: CodeUnavailable, Message: message}
}

// CodeOf extracts the domain error code, or empty string for non-domain errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNotFound returns true if err is a not-found domain error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsValidation returns true if err is a validation domain error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

// IsNoAvailability returns true if err reports a fully booked route.
func IsNoAvailability(err error) bool {
	return CodeOf(err) == CodeNoAvailability
}
