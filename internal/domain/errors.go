package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrHierarchyCycle is returned when a parent assignment would make an
	// entity its own ancestor.
	ErrHierarchyCycle = errors.New("hierarchy cycle")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// Kind classifies a failure so that transports can pick a response without
// inspecting messages.
type Kind int

const (
	// KindUnknown is the zero value; treated like KindPersistence by callers.
	KindUnknown Kind = iota
	// KindValidation marks a missing or malformed input field.
	KindValidation
	// KindNotFound marks a missing entity or foreign key target.
	KindNotFound
	// KindConflict marks a duplicate unique value or a still-referenced row.
	KindConflict
	// KindUnauthorized marks bad credentials or a missing identity.
	KindUnauthorized
	// KindForbidden marks an identity lacking a permission.
	KindForbidden
	// KindPersistence marks an unexpected storage or filesystem failure.
	KindPersistence
	// KindInvalidPayload marks an account or membre payload rejected as a
	// whole, with per-field messages, or an account that already exists.
	KindInvalidPayload
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindPersistence:
		return "persistence"
	case KindInvalidPayload:
		return "invalid_payload"
	default:
		return "unknown"
	}
}

// Error is the result type returned by services. Message is safe to show to
// clients; Fields carries per-field messages for validation failures; Err is
// the underlying cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error. fields may be nil.
func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields, Err: ErrValidation}
}

// NewFieldError creates a validation error for a single field.
func NewFieldError(field, message string) *Error {
	return NewValidationError(message, map[string]string{field: message})
}

// NewInvalidPayloadError creates an invalid-payload error. fields may be nil.
func NewInvalidPayloadError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindInvalidPayload, Message: message, Fields: fields, Err: ErrValidation}
}

// NewResourceNotFoundError reports a missing entity addressed by the request
// path.
func NewResourceNotFoundError() *Error {
	return &Error{Kind: KindNotFound, Message: "Resource not found"}
}

// NewNotFoundError creates a not-found error, e.g. NewNotFoundError("region", 4).
func NewNotFoundError(entity string, id any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("That %s %v doesnt exist", entity, id),
	}
}

// NewConflictError creates a conflict error with the given message.
func NewConflictError(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: cause}
}

// NewUnauthorizedError creates an authentication failure.
func NewUnauthorizedError(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Err: ErrUnauthorized}
}

// NewPersistenceError wraps an unexpected storage failure.
func NewPersistenceError(operation string, cause error) *Error {
	return &Error{
		Kind:    KindPersistence,
		Message: fmt.Sprintf("failed to %s", operation),
		Err:     cause,
	}
}

// KindOf returns the Kind of err, looking through wrapped errors.
// Errors that are not *Error report KindPersistence; nil reports KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}

// FieldsOf returns the field messages carried by err, if any.
func FieldsOf(err error) map[string]string {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// MessageOf returns the client-safe message carried by err.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return "Internal Server Error"
}
