package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors. Each code maps to one of the
// process exit codes via ExitCode.
const (
	ErrUnknownAlias   = "UNKNOWN_ALIAS"
	ErrDuplicateAlias = "DUPLICATE_ALIAS"
	ErrInvalidProfile = "INVALID_PROFILE"
	ErrInvalidTarget  = "INVALID_TARGET"
	ErrAmbiguous      = "AMBIGUOUS_REQUEST"
	ErrStoreCorrupt   = "STORE_CORRUPT"
	ErrStore          = "STORE"
	ErrSpawn          = "SPAWN_FAILED"
	ErrMechanism      = "MECHANISM"
	ErrUsage          = "USAGE"
)

// Process exit codes. Validation problems are always caught before any
// external process is spawned, so ExitMechanism means the mechanism itself
// ran and reported failure.
const (
	ExitOK        = 0
	ExitUsage     = 1
	ExitMechanism = 2
	ExitStore     = 3
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error

	// MechanismExit carries the child process exit code for ErrMechanism errors.
	MechanismExit int
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrUsage code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrUsage,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// NewMechanism creates an error for an external mechanism that ran and exited non-zero.
func NewMechanism(tool string, exitCode int, classification string) *Error {
	msg := fmt.Sprintf("%s exited with code %d", tool, exitCode)
	if classification != "" {
		msg = fmt.Sprintf("%s exited with code %d (%s)", tool, exitCode, classification)
	}
	return &Error{
		Code:          ErrMechanism,
		Message:       msg,
		Suggestion:    fmt.Sprintf("Check the output above for details from %s.", tool),
		MechanismExit: exitCode,
	}
}

// Error implements the error interface with formatted output.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Include cause if present (why it failed)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// Include suggestion if present (how to fix)
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var xerr *Error
	if errors.As(err, &xerr) {
		return xerr.Code == code
	}
	return false
}

// ExitCode maps an error to the process exit code the CLI should use.
// nil maps to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var xerr *Error
	if !errors.As(err, &xerr) {
		return ExitUsage
	}
	switch xerr.Code {
	case ErrMechanism, ErrSpawn:
		return ExitMechanism
	case ErrStoreCorrupt, ErrStore:
		return ExitStore
	default:
		return ExitUsage
	}
}
