package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the way the run loop reacts to it: fatal
// setup problems, network faults, provider contract violations, payload
// problems, or an exhausted poll budget.
type Kind string

const (
	KindConfiguration      Kind = "configuration"
	KindTransport          Kind = "transport"
	KindProtocol           Kind = "protocol"
	KindParse              Kind = "parse"
	KindAcquisitionTimeout Kind = "acquisition_timeout"
)

// Error is the application-level error carrying its kind and an optional
// wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithError wraps an underlying error.
func (e *Error) WithError(err error) *Error {
	e.Err = err
	return e
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with formatting.
func Newf(kind Kind, format string, a ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, a...))
}

// ConfigurationError creates a configuration error.
func ConfigurationError(message string) *Error {
	return New(KindConfiguration, message)
}

// ConfigurationErrorf creates a configuration error with formatting.
func ConfigurationErrorf(format string, a ...interface{}) *Error {
	return Newf(KindConfiguration, format, a...)
}

// TransportError creates a transport error.
func TransportError(message string) *Error {
	return New(KindTransport, message)
}

// TransportErrorf creates a transport error with formatting.
func TransportErrorf(format string, a ...interface{}) *Error {
	return Newf(KindTransport, format, a...)
}

// ProtocolError creates a protocol error.
func ProtocolError(message string) *Error {
	return New(KindProtocol, message)
}

// ProtocolErrorf creates a protocol error with formatting.
func ProtocolErrorf(format string, a ...interface{}) *Error {
	return Newf(KindProtocol, format, a...)
}

// ParseError creates a parse error.
func ParseError(message string) *Error {
	return New(KindParse, message)
}

// ParseErrorf creates a parse error with formatting.
func ParseErrorf(format string, a ...interface{}) *Error {
	return Newf(KindParse, format, a...)
}

// AcquisitionTimeoutError creates an acquisition-timeout error.
func AcquisitionTimeoutError(message string) *Error {
	return New(KindAcquisitionTimeout, message)
}

// KindOf returns the kind of err, or "" when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
