// ============================================================================
// internal/grading/errors.go
// Typed domain errors for the grading workflow
// ============================================================================

package grading

import (
	"errors"
	"fmt"
)

// Kind classifies a grading error so the HTTP layer can map it to a status
// code in one place.
type Kind string

const (
	KindNotFound      Kind = "not_found"      // missing record/milestone/file
	KindForbidden     Kind = "forbidden"      // actor lacks relationship to the record
	KindValidation    Kind = "validation"     // out-of-range score/weight, missing comment
	KindInvalidState  Kind = "invalid_state"  // transition attempted from wrong status
	KindLimitExceeded Kind = "limit_exceeded" // milestone document cap reached
	KindConflict      Kind = "conflict"       // concurrent modification detected
)

// Error is the single error type surfaced by the grading core.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewNotFound builds a not_found error
func NewNotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewForbidden builds a forbidden error
func NewForbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// NewValidation builds a validation error
func NewValidation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidState builds an invalid_state error
func NewInvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// NewLimitExceeded builds a limit_exceeded error
func NewLimitExceeded(format string, args ...interface{}) *Error {
	return &Error{Kind: KindLimitExceeded, Message: fmt.Sprintf(format, args...)}
}

// ErrVersionConflict is returned by Store.Save when the record was modified
// by another request between read and write. The orchestrator retries once.
var ErrVersionConflict = &Error{Kind: KindConflict, Message: "grade record was modified concurrently"}

// KindOf extracts the Kind from an error chain, or "" for unclassified errors
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return ""
}
