// Package errors provides structured error types for typo3vite.
//
// Every failure that reaches the user carries a machine-readable Code so the
// CLI and the plugin hooks can tell configuration mistakes apart from a
// missing "composer install" or a broken JSON file:
//   - *_NOT_FOUND: no composer context for the requested target
//   - COMPOSER_*: the installed-package index is absent or corrupt
//   - INVALID_*: malformed input (JSON files, options, paths)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeProjectNotFound, "no composer project below %s", dir)
//	if errors.Is(err, errors.ErrCodeProjectNotFound) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidJSON, origErr, "parse %s", file)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidJSON    Code = "INVALID_JSON"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidTarget  Code = "INVALID_TARGET"
	ErrCodeInvalidAliases Code = "INVALID_ALIASES"
	ErrCodeInvalidPattern Code = "INVALID_PATTERN"

	// Configuration errors: the project layout does not match the target
	ErrCodeProjectNotFound   Code = "PROJECT_NOT_FOUND"
	ErrCodeExtensionNotFound Code = "EXTENSION_NOT_FOUND"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// Composer state errors
	ErrCodeComposerNotInstalled Code = "COMPOSER_NOT_INSTALLED"
	ErrCodeInvalidComposerState Code = "INVALID_COMPOSER_STATE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
