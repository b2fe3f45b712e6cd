package usis

import (
	"fmt"
	"strings"
)

// Frame delimiters of the USIS wire format.
const (
	// checksumDelimiter separates the frame body from its checksum trailer.
	checksumDelimiter = '*'

	// fieldSeparator separates the fields of a frame body.
	fieldSeparator = ";"

	// frameTerminator ends every frame on the wire.
	frameTerminator = '\n'
)

// Checksum computes the USIS frame checksum: the XOR of all UTF-8 bytes of
// body. The caller is expected to pass the body without the checksum trailer
// or the trailing newline.
func Checksum(body string) byte {
	var cks byte
	for i := 0; i < len(body); i++ {
		cks ^= body[i]
	}

	return cks
}

// EncodeFrame renders a command body as a wire frame:
//
//	<body>*<XX>\n
//
// where <XX> is the two-digit uppercase hex checksum of the body. Any
// trailing newlines on body are trimmed before the checksum is computed.
//
// The body must not contain '*' or '\n'; field splitting on the device side
// is undefined if it does. This is a protocol-level assumption and is not
// validated here.
func EncodeFrame(body string) string {
	body = strings.TrimRight(body, "\n")

	return fmt.Sprintf("%s%c%02X%c", body, checksumDelimiter, Checksum(body), frameTerminator)
}

// Reply is a decoded USIS reply frame.
//
// Fields holds the semicolon-separated fields of the frame body, in wire
// order. Checksum holds the raw checksum digits the device sent after the
// '*' delimiter; it is retained for diagnostics but never verified against a
// recomputation — the protocol trusts inbound checksums (a known asymmetry:
// outbound checksums are always recomputed, inbound ones are not).
type Reply struct {
	Fields   []string
	Checksum string
}

// ParseReply decodes one reply line into its fields.
//
// It locates the last '*' in the line, splits everything before it on ';' and
// keeps everything after it (minus the line terminator) as the raw checksum.
// A line without '*' indicates framing desync and fails with
// [ErrMalformedReply].
func ParseReply(line string) (*Reply, error) {
	end := strings.LastIndexByte(line, checksumDelimiter)
	if end < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedReply, strings.TrimRight(line, "\n"))
	}

	return &Reply{
		Fields:   strings.Split(line[:end], fieldSeparator),
		Checksum: strings.TrimRight(line[end+1:], "\n"),
	}, nil
}

// Status returns the reply's status token (the first field).
func (r *Reply) Status() string {
	if len(r.Fields) == 0 {
		return ""
	}

	return r.Fields[0]
}

// Value returns the reply's value (the last field on a success reply).
func (r *Reply) Value() string {
	if len(r.Fields) == 0 {
		return ""
	}

	return r.Fields[len(r.Fields)-1]
}

// State returns the property state (the second-to-last field on a success
// reply).
func (r *Reply) State() string {
	if len(r.Fields) < 2 {
		return ""
	}

	return r.Fields[len(r.Fields)-2]
}

// Field returns the i-th field, or "" if the reply has no such field.
func (r *Reply) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}

	return r.Fields[i]
}

// Body returns the reply body as sent on the wire, without the checksum
// trailer.
func (r *Reply) Body() string {
	return strings.Join(r.Fields, fieldSeparator)
}
