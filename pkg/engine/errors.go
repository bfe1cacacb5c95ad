package engine

import (
	"errors"
	"fmt"
)

// ErrorClass classifies an engine error for propagation policy.
type ErrorClass string

const (
	// ErrorClassStateQuery indicates an I/O failure while inspecting a
	// resource. Correctness cannot be determined, so the batch fails
	// immediately regardless of the bail-on-error policy.
	ErrorClassStateQuery ErrorClass = "state-query"

	// ErrorClassApply indicates a mutation failed. Whether this aborts the
	// batch is decided by ProcessOpts.BailOnError.
	ErrorClassApply ErrorClass = "apply"

	// ErrorClassPermanent indicates a non-recoverable error such as invalid
	// configuration or an unsupported platform.
	ErrorClassPermanent ErrorClass = "permanent"
)

// EngineError represents a classified error with resource and operation
// context attached.
type EngineError struct {
	// Class is the error classification for propagation policy.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Code is an optional error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// Resource is the resource description that caused the error, if any.
	Resource string `json:"resource,omitempty"`

	// Operation is the operation being performed when the error occurred.
	Operation string `json:"operation,omitempty"`

	// Err is the underlying error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Class, e.Message)
	if e.Resource != "" {
		msg += fmt.Sprintf(" (resource=%s)", e.Resource)
	}
	if e.Operation != "" {
		msg += fmt.Sprintf(" (operation=%s)", e.Operation)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewStateQueryError creates a new state-query error.
func NewStateQueryError(message string, err error) *EngineError {
	return &EngineError{Class: ErrorClassStateQuery, Message: message, Err: err}
}

// NewApplyError creates a new apply error.
func NewApplyError(message string, err error) *EngineError {
	return &EngineError{Class: ErrorClassApply, Message: message, Err: err}
}

// NewPermanentError creates a new permanent error.
func NewPermanentError(message string, err error) *EngineError {
	return &EngineError{Class: ErrorClassPermanent, Message: message, Err: err}
}

// WithResource adds resource context to an error.
func (e *EngineError) WithResource(resource string) *EngineError {
	e.Resource = resource
	return e
}

// WithOperation adds operation context to an error.
func (e *EngineError) WithOperation(operation string) *EngineError {
	e.Operation = operation
	return e
}

// WithCode adds an error code to an error.
func (e *EngineError) WithCode(code string) *EngineError {
	e.Code = code
	return e
}

// IsStateQuery returns true if the error is classified as a state-query error.
func IsStateQuery(err error) bool {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Class == ErrorClassStateQuery
	}
	return false
}

// IsApply returns true if the error is classified as an apply error.
func IsApply(err error) bool {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Class == ErrorClassApply
	}
	return false
}

// IsPermanent returns true if the error is classified as permanent.
func IsPermanent(err error) bool {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Class == ErrorClassPermanent
	}
	return false
}

// Common error codes.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeUnsupported      = "UNSUPPORTED_PLATFORM"
	ErrCodeCommandFailed    = "COMMAND_FAILED"
	ErrCodePolicyDenied     = "POLICY_DENIED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)
