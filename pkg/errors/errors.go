// Package errors provides structured error types for kintree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the core, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - The offending person IDs as minimal context
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure taxonomy of the relationship store:
//   - VALIDATION_ERROR: malformed person fields
//   - INVALID_RELATIONSHIP: self edge, third parent, or parent cycle
//   - DUPLICATE_RELATIONSHIP: the pair is already connected with that type
//   - ORPHAN_WOULD_RESULT: removal would orphan a subtree
//
// Mutation errors are always returned before the graph is touched, so a caller
// that receives one of them can rely on the graph being unchanged.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRelationship, "cycle").WithIDs(a, b)
//	if errors.Is(err, errors.ErrCodeInvalidRelationship) {
//	    // Surface a notification for errors.IDs(err)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph mutation errors
	ErrCodeValidation            Code = "VALIDATION_ERROR"
	ErrCodeInvalidRelationship   Code = "INVALID_RELATIONSHIP"
	ErrCodeDuplicateRelationship Code = "DUPLICATE_RELATIONSHIP"
	ErrCodeOrphanWouldResult     Code = "ORPHAN_WOULD_RESULT"
	ErrCodeDuplicatePerson       Code = "DUPLICATE_PERSON"

	// History errors
	ErrCodeNothingToUndo Code = "NOTHING_TO_UNDO"
	ErrCodeNothingToRedo Code = "NOTHING_TO_REDO"

	// Input errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidSettings Code = "INVALID_SETTINGS"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodePersonNotFound Code = "PERSON_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, the IDs involved and an optional cause.
type Error struct {
	Code    Code     // Machine-readable error code
	Message string   // Human-readable message
	IDs     []string // Offending person IDs (optional)
	Cause   error    // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.IDs) > 0 {
		msg += " [" + strings.Join(e.IDs, ", ") + "]"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithIDs attaches the offending person IDs and returns e.
func (e *Error) WithIDs(ids ...string) *Error {
	e.IDs = append(e.IDs, ids...)
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IDs returns the person IDs attached to the first *Error in the chain.
func IDs(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.IDs
	}
	return nil
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
