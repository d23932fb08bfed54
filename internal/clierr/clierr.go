// Package clierr defines the error taxonomy shared by the transport and the
// commands, and the process exit code each kind maps to.
package clierr

import (
	"errors"
	"fmt"
)

// Exit codes
const (
	ExitOK       = 0
	ExitAPI      = 1
	ExitUsage    = 2
	ExitAuth     = 3
	ExitNotFound = 4
)

// Kind classifies an Error
type Kind int

const (
	// KindAPI is a generic remote API failure, optionally carrying a status and code
	KindAPI Kind = iota
	// KindUsage is bad local input detected before any network call
	KindUsage
	// KindAuth is a missing or rejected credential
	KindAuth
	// KindNotFound is a missing remote resource
	KindNotFound
)

// String returns the human label for the kind
func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "Usage Error"
	case KindAuth:
		return "Authentication Error"
	case KindNotFound:
		return "Not Found"
	default:
		return "API Error"
	}
}

// Error is a classified CLI error
type Error struct {
	Kind    Kind
	Message string
	Status  int    // HTTP status, 0 when no response was received
	Code    string // machine-readable code from the response body
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for the kind
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindUsage:
		return ExitUsage
	case KindAuth:
		return ExitAuth
	case KindNotFound:
		return ExitNotFound
	default:
		return ExitAPI
	}
}

// Usage creates a usage error
func Usage(format string, args ...any) error {
	return &Error{Kind: KindUsage, Message: fmt.Sprintf(format, args...)}
}

// Auth creates an authentication error
func Auth(message string) error {
	return &Error{Kind: KindAuth, Message: message}
}

// NotFound creates a not-found error
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// API creates a generic API error. status is 0 when no response was received.
func API(message string, status int, code string) error {
	return &Error{Kind: KindAPI, Message: message, Status: status, Code: code}
}

// Network wraps a transport-level failure as an API error without a status
func Network(err error) error {
	return &Error{Kind: KindAPI, Message: err.Error(), Err: err}
}

// As extracts a classified error from err's chain
func As(err error) (*Error, bool) {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr, true
	}
	return nil, false
}

// Is reports whether err's chain contains a classified error of the given kind
func Is(err error, kind Kind) bool {
	cerr, ok := As(err)
	return ok && cerr.Kind == kind
}

// ExitCode maps any error onto a process exit code. Unclassified errors exit 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if cerr, ok := As(err); ok {
		return cerr.ExitCode()
	}
	return ExitAPI
}

// MachineCode returns the code used in JSON error envelopes
func MachineCode(err error) string {
	cerr, ok := As(err)
	if !ok {
		return "ERROR"
	}
	if cerr.Code != "" {
		return cerr.Code
	}
	switch cerr.Kind {
	case KindUsage:
		return "USAGE_ERROR"
	case KindAuth:
		return "AUTH_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "API_ERROR"
	}
}
