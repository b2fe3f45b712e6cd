package usis

import (
	"errors"
	"fmt"
)

// Sentinel errors for the USIS protocol.
//
// The taxonomy splits into two classes. Fatal errors mean the serial channel
// can no longer be trusted: the caller must Close the session and stop all
// further protocol activity. Non-fatal errors are scoped to one transaction:
// the session stays open and the caller may retry the user action.
var (
	// Fatal, transport-classified errors.

	// ErrChannelOpen indicates the serial device could not be opened or
	// configured.
	ErrChannelOpen = errors.New("usis: cannot open serial channel")

	// ErrMalformedReply indicates a reply line without a checksum delimiter.
	// It is treated as fatal since it indicates framing desync.
	ErrMalformedReply = errors.New("usis: malformed reply, no checksum delimiter")

	// ErrTimeout indicates no reply line arrived within the exchange timeout.
	ErrTimeout = errors.New("usis: reply timeout")

	// ErrChannel indicates an unrecoverable serial channel fault. All
	// transport faults, regardless of platform or origin, are normalized
	// into this kind.
	ErrChannel = errors.New("usis: serial channel fault")

	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("usis: session closed")

	// Non-fatal, protocol-classified errors.

	// ErrDevice indicates the device answered with a C-class status. The
	// message is device-supplied; see [StatusError].
	ErrDevice = errors.New("usis: device error")

	// ErrProtocol indicates the device answered with an unrecognized status
	// class, or a structurally unusable success reply.
	ErrProtocol = errors.New("usis: protocol error")
)

// StatusError is a non-fatal error reported through a reply's status field.
// It unwraps to [ErrDevice] for C-class statuses and to [ErrProtocol] for
// unrecognized ones, so callers can branch with errors.Is while still
// reaching the device-supplied status code and message.
type StatusError struct {
	kind error

	// Status is the raw status token from the reply (e.g. "C01").
	Status string

	// Message is the device-supplied message (the reply's second field).
	Message string
}

func newStatusError(kind error, status, message string) *StatusError {
	return &StatusError{kind: kind, Status: status, Message: message}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s (status %s)", e.kind, e.Message, e.Status)
}

func (e *StatusError) Unwrap() error { return e.kind }

// IsFatal reports whether err ends the session. A fatal error requires the
// caller to Close the session; retrying the transaction is never valid.
func IsFatal(err error) bool {
	return errors.Is(err, ErrChannelOpen) ||
		errors.Is(err, ErrMalformedReply) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrChannel) ||
		errors.Is(err, ErrSessionClosed)
}
