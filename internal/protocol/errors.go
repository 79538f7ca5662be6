package protocol

import (
	"fmt"
	"strings"
)

// ErrorLevel classifies a server-reported condition. Warnings are
// accumulated on the connection rather than surfaced as errors (§7).
type ErrorLevel int8

// ErrorLevel values as reported by the server.
const (
	ErrorLevelWarning ErrorLevel = 0
	ErrorLevelError   ErrorLevel = 1
	ErrorLevelFatal   ErrorLevel = 2
)

// SQLError is one server-reported SQL or session error.
type SQLError struct {
	Code     int32
	Position int32
	Level    ErrorLevel
	SQLState string
	Text     string
}

func (e *SQLError) Error() string {
	return fmt.Sprintf("SQL error %d (sqlstate %s): %s", e.Code, e.SQLState, e.Text)
}

// ServerError wraps one or more SQLErrors returned together in a reply's
// Error Part (§7 ServerError kind). A warning-only Error Part decodes
// into one as well (see IsWarning); RoundTrip returns a ServerError as an
// error only when it holds at least one non-warning entry.
type ServerError struct {
	Errors []*SQLError
	// StatementIndex maps a batch row index to its SQLError, for batches
	// where some rows executed and some failed (RowsAffected sentinel
	// raExecutionFailed correlated back to this Error part).
	StatementIndex map[int]int
}

func (e *ServerError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	parts := make([]string, len(e.Errors))
	for i, se := range e.Errors {
		parts[i] = se.Error()
	}
	return fmt.Sprintf("%d SQL errors: %s", len(e.Errors), strings.Join(parts, "; "))
}

// IsWarning reports whether every contained SQLError has warning severity.
func (e *ServerError) IsWarning() bool {
	for _, se := range e.Errors {
		if se.Level != ErrorLevelWarning {
			return false
		}
	}
	return true
}

// ProtocolError signals a malformed frame: bad header, unknown mandatory
// Part, length mismatch, or decompression failure.
type ProtocolError struct {
	Reason string
	cause  error
}

func (e *ProtocolError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("protocol error: %s", e.Reason)
}
func (e *ProtocolError) Unwrap() error { return e.cause }

// AuthError signals a rejected authentication method or bad credentials.
type AuthError struct {
	Reason string
	cause  error
}

func (e *AuthError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("authentication error: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("authentication error: %s", e.Reason)
}
func (e *AuthError) Unwrap() error { return e.cause }

// ConnectionBrokenError signals a transport error, read timeout, or
// truncated reply; the connection is marked dead.
type ConnectionBrokenError struct {
	Reason string
	cause  error
}

func (e *ConnectionBrokenError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("connection broken: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("connection broken: %s", e.Reason)
}
func (e *ConnectionBrokenError) Unwrap() error { return e.cause }

// UsageError signals API misuse: execute on a closed connection, parameter
// arity mismatch, or the wrong reply kind requested.
type UsageError struct{ Reason string }

func (e *UsageError) Error() string { return fmt.Sprintf("usage error: %s", e.Reason) }

// ConversionError signals a value that could not be represented in the
// requested target type, or a CESU-8/UTF-8 decode failure deferred to
// interpretation time (§7).
type ConversionError struct {
	Reason string
	cause  error
}

func (e *ConversionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("conversion error: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("conversion error: %s", e.Reason)
}
func (e *ConversionError) Unwrap() error { return e.cause }

// LobError signals an expired locator or a LOB that exceeded its declared
// length.
type LobError struct{ Reason string }

func (e *LobError) Error() string { return fmt.Sprintf("lob error: %s", e.Reason) }

// NewConnectionBrokenError builds a ConnectionBrokenError for callers
// outside this package (the dialer in driver.Connector, chiefly), since
// cause is unexported to keep Unwrap the only way to reach it.
func NewConnectionBrokenError(reason string, cause error) *ConnectionBrokenError {
	return &ConnectionBrokenError{Reason: reason, cause: cause}
}

// NewProtocolError builds a ProtocolError with an optional wrapped cause.
func NewProtocolError(reason string, cause error) *ProtocolError {
	return &ProtocolError{Reason: reason, cause: cause}
}

// NewAuthError builds an AuthError with an optional wrapped cause.
func NewAuthError(reason string, cause error) *AuthError {
	return &AuthError{Reason: reason, cause: cause}
}

// NewConversionError builds a ConversionError with an optional wrapped cause.
func NewConversionError(reason string, cause error) *ConversionError {
	return &ConversionError{Reason: reason, cause: cause}
}
