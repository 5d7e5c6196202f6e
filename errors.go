package nntp

import (
	"errors"

	"github.com/sntran/nntp/wire"
)

var (
	// ErrClientClosed is returned by operations on a closed Client.
	ErrClientClosed = errors.New("nntp: client closed")

	// ErrServerRefused is returned by Dial when the greeting is a 400 or
	// 502: the server accepted the TCP connection but refused service.
	ErrServerRefused = errors.New("nntp: server refused connection")
)

// Error types from the wire package, re-exported so most callers only
// import this package.
type (
	ProtocolError       = wire.ProtocolError
	ConnectionError     = wire.ConnectionError
	CommandTooLongError = wire.CommandTooLongError
	StatusError         = wire.StatusError
)

// ShouldCloseConnection reports whether err poisoned the connection it
// came from. See wire.ShouldCloseConnection.
func ShouldCloseConnection(err error) bool {
	return wire.ShouldCloseConnection(err)
}

// IsNoSuchGroup reports whether err is a 411 status from a group
// selection.
func IsNoSuchGroup(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == wire.StatusNoSuchGroup
}

// IsNoSuchArticle reports whether err is a 430 status from an article
// lookup by message-ID.
func IsNoSuchArticle(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == wire.StatusNoSuchArticle
}

// IsAuthRequired reports whether err is a 480 status: the server wants an
// AUTHINFO exchange before honoring the command.
func IsAuthRequired(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == wire.StatusAuthRequired
}
