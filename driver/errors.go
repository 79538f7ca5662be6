package driver

import (
	"errors"

	"github.com/hdbdrv/gohdb/internal/protocol"
)

// Public error types are aliases of the protocol package's, so callers can
// use errors.As against a single driver-owned name without importing
// internal/protocol themselves.
type (
	SQLError              = protocol.SQLError
	ServerError           = protocol.ServerError
	ProtocolError         = protocol.ProtocolError
	AuthError             = protocol.AuthError
	ConnectionBrokenError = protocol.ConnectionBrokenError
	UsageError            = protocol.UsageError
	ConversionError       = protocol.ConversionError
	LobError              = protocol.LobError
)

// IsConnectionBroken reports whether err (or anything it wraps) marks the
// connection as unusable, so callers can decide to reconnect rather than
// retry the same ConnectionCore.
func IsConnectionBroken(err error) bool {
	var cbe *ConnectionBrokenError
	return errors.As(err, &cbe)
}

// IsServerError reports whether err is a server-reported SQL error, and
// returns it for inspecting individual SQLErrors and StatementIndex.
func IsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
