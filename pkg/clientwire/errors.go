package clientwire

import "fmt"

// Code classifies runtime registration and resolution failures.
type Code int

const (
	CodeUnknown Code = iota

	// CodeConfiguration marks invalid scan configuration (fatal at startup).
	CodeConfiguration

	// CodeRegistration marks registry mutation conflicts.
	CodeRegistration

	// CodeDependency marks resolution failures: missing definitions,
	// missing builders, ambiguous autowire candidates.
	CodeDependency

	// CodeTransport marks transport-client failures: unknown bindings,
	// invocation errors.
	CodeTransport
)

// String returns the string representation of the code.
func (c Code) String() string {
	switch c {
	case CodeConfiguration:
		return "ConfigurationError"
	case CodeRegistration:
		return "RegistrationError"
	case CodeDependency:
		return "DependencyError"
	case CodeTransport:
		return "TransportError"
	default:
		return "UnknownError"
	}
}

// Error is the runtime error type carrying a classification code.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so callers can test taxonomy membership with
// errors.Is against a bare &Error{Code: ...}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func newErrorf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
