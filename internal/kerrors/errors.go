// Package kerrors defines the typed error taxonomy shared by every layer of
// the KICKAI core: registries, the orchestration pipeline, tool dispatch,
// and the startup validator. Each error carries a Code for classification,
// monitoring, and retry policy, plus a free-form Context map for structured
// logging.
package kerrors

import (
	"errors"
	"fmt"
)

// Code categorizes an error for monitoring and handling, mirroring the
// taxonomy in spec.md §7.
type Code string

const (
	// CodeValidation marks invalid input shape, a missing required field, or
	// a malformed value. Surfaced to the user; never retried.
	CodeValidation Code = "VALIDATION_ERROR"

	// CodeLookup marks an entity-not-found condition.
	CodeLookup Code = "LOOKUP_ERROR"

	// CodeConflict marks a duplicate-registration or already-exists condition.
	CodeConflict Code = "CONFLICT_ERROR"

	// CodePermission marks a caller lacking the required role.
	CodePermission Code = "PERMISSION_ERROR"

	// CodeServiceUnavailable marks a required collaborator (LLM, database,
	// tool registry) being down. Recovered with a generic apology.
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"

	// CodeDataCorruption marks a persisted record failing schema validation
	// on read. Not recovered; surfaced to operators.
	CodeDataCorruption Code = "DATA_CORRUPTION"

	// CodeProgramming marks a registry accessed before initialization or an
	// agent referencing an unknown tool. Fail-fast at startup only.
	CodeProgramming Code = "PROGRAMMING_ERROR"
)

// Error is a structured error carrying a Code, human-readable Message, the
// wrapped cause, and arbitrary Context for logging.
type Error struct {
	Code    Code
	Message string
	Err     error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given code and message.
func New(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err, Context: map[string]any{}}
}

// WithContext attaches a key/value pair and returns the receiver for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// Validation builds a CodeValidation error.
func Validation(message string, err error) *Error { return New(CodeValidation, message, err) }

// Lookup builds a CodeLookup error.
func Lookup(message string, err error) *Error { return New(CodeLookup, message, err) }

// Conflict builds a CodeConflict error.
func Conflict(message string, err error) *Error { return New(CodeConflict, message, err) }

// Permission builds a CodePermission error.
func Permission(message string, err error) *Error { return New(CodePermission, message, err) }

// Unavailable builds a CodeServiceUnavailable error.
func Unavailable(message string, err error) *Error { return New(CodeServiceUnavailable, message, err) }

// Corruption builds a CodeDataCorruption error.
func Corruption(message string, err error) *Error { return New(CodeDataCorruption, message, err) }

// Programming builds a CodeProgramming error. Callers should panic or exit on
// these rather than attempt recovery — they indicate a broken invariant that
// must never be reached once the startup validator has passed.
func Programming(message string, err error) *Error { return New(CodeProgramming, message, err) }

// CodeOf extracts the Code from err if it (or something it wraps) is an
// *Error; returns "" otherwise.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err is (or wraps) an *Error with the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
