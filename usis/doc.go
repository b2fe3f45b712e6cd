// Package usis implements the USIS instrument-control protocol for
// spectroscopes over a byte-oriented serial line.
//
// USIS is a vendor-neutral, request/reply line protocol: every command is one
// checksummed, newline-terminated ASCII frame, and every frame is answered by
// exactly one reply frame before the next command may be issued.
//
// # Protocol Overview
//
// A frame has the shape
//
//	<field>;<field>;...*<XX>\n
//
// where <XX> is the XOR checksum of everything before '*', rendered as two
// uppercase hex digits. The first reply field is a status token:
//
//   - "M00"           — success; the last field is the value, the field
//     before it is the property state.
//   - "C..."          — device-reported error (non-fatal; the session stays
//     usable and the caller may retry the user action).
//   - anything else   — unrecognized status (non-fatal but unexpected).
//
// Transport-level failures (timeout, serial fault, framing desync) are fatal
// to the session: the caller must Close the session and stop issuing
// commands. Use [IsFatal] to classify an error returned by any operation.
//
// # Capability Discovery
//
// A USIS device describes itself: it exposes an ordered list of properties
// (grating angle, focus position, ...), each with named attributes (VALUE,
// MIN, MAX, ...) and, for ENUM-typed properties, enumerated value domains.
// [Session.Introspect] walks this schema with INFO commands and returns a
// typed [Model] with no prior knowledge of the instrument.
//
// # Session Model
//
// A [Session] owns exactly one serial channel and runs one transaction at a
// time; there is no pipelining and no mid-transaction cancellation. Callers
// that need periodic refresh should poll from a dedicated goroutine (see the
// monitor package) rather than from a latency-sensitive one, since every call
// blocks for up to the exchange timeout.
package usis
