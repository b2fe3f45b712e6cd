package usis

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/usis-protocol/go-usis/internal/pool"
	"github.com/usis-protocol/go-usis/logger"
)

// Port is the subset of the serial channel surface the transport needs.
// go.bug.st/serial.Port satisfies it; tests substitute scripted fakes.
type Port interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds each Read call on the channel.
	SetReadTimeout(t time.Duration) error

	// ResetInputBuffer discards all unread input buffered by the driver.
	ResetInputBuffer() error
}

// Compile-time check: the serial library's port satisfies Port.
var _ Port = serial.Port(nil)

// transport owns the serial channel of one session and performs the
// write-then-poll-read cycle of a USIS transaction.
//
// It is NOT goroutine-safe. The session guarantees one transaction at a time,
// consistent with the strictly request-then-reply nature of the protocol.
type transport struct {
	port   Port
	name   string
	cfg    *SessionConfig
	logger logger.Logger

	// pending holds bytes read past a line terminator. It is discarded,
	// together with the driver's input buffer, at the start of every
	// transaction.
	pending []byte

	// onRetry is called each time a transient read fault triggers a backoff.
	// Used for metrics collection. May be nil.
	onRetry func()

	closed bool
}

// openTransport opens the named serial device at the configured baud rate
// (8N1 framing) and applies the channel read timeout.
func openTransport(portName string, cfg *SessionConfig) (*transport, error) {
	mode := &serial.Mode{BaudRate: cfg.baudRate}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrChannelOpen, portName, err)
	}

	if err := port.SetReadTimeout(cfg.readTimeout); err != nil {
		_ = port.Close()

		return nil, fmt.Errorf("%w: %s: %v", ErrChannelOpen, portName, err)
	}

	return newTransport(port, portName, cfg), nil
}

// newTransport wraps an already-open channel. Used directly by tests.
func newTransport(port Port, name string, cfg *SessionConfig) *transport {
	return &transport{
		port:   port,
		name:   name,
		cfg:    cfg,
		logger: cfg.logger,
	}
}

// writeThenReadLine clears stale input, writes one frame, then polls the
// channel until a full reply line is available or overall elapses.
//
// A transient read fault waits one retry interval before the next poll; the
// overall deadline still bounds the transaction, so a failed exchange
// completes within overall plus at most one retry interval. Unrecoverable
// channel faults of any origin are surfaced as [ErrChannel]; expiry of the
// deadline as [ErrTimeout].
func (t *transport) writeThenReadLine(frame string, overall time.Duration) (string, error) {
	if t.closed {
		return "", ErrSessionClosed
	}

	// Discard stale input so the reply cannot be matched against leftovers
	// of an earlier transaction.
	t.pending = t.pending[:0]
	if err := t.port.ResetInputBuffer(); err != nil {
		return "", channelFault("reset input buffer", err)
	}

	if err := t.writeAll([]byte(frame)); err != nil {
		return "", channelFault("write frame", err)
	}

	deadline := time.Now().Add(overall)
	buf := make([]byte, 256)

	for {
		if line, ok := t.takeLine(); ok {
			return line, nil
		}

		if !time.Now().Before(deadline) {
			return "", fmt.Errorf("%w: no reply within %v", ErrTimeout, overall)
		}

		n, err := t.port.Read(buf)
		if n > 0 {
			t.pending = append(t.pending, buf[:n]...)

			continue
		}

		switch {
		case err == nil:
			// Channel-level read timeout with no data; keep polling until
			// the overall deadline.
			continue

		case t.closed, isChannelFault(err):
			return "", channelFault("read", err)

		default:
			// Transient read fault: wait one fixed interval, then poll
			// again. Single retry class, no escalation.
			if t.onRetry != nil {
				t.onRetry()
			}
			t.logger.Debug("usis: transient read fault, backing off",
				"port", t.name,
				"interval", t.cfg.retryInterval,
				"error", err,
			)
			t.wait(t.cfg.retryInterval)
		}
	}
}

// takeLine extracts one terminator-ended line from the pending buffer.
func (t *transport) takeLine() (string, bool) {
	idx := bytes.IndexByte(t.pending, frameTerminator)
	if idx < 0 {
		return "", false
	}

	line := string(t.pending[:idx+1])
	t.pending = append(t.pending[:0], t.pending[idx+1:]...)

	return line, true
}

// writeAll writes all bytes in data to the channel.
func (t *transport) writeAll(data []byte) error {
	for written := 0; written < len(data); {
		n, err := t.port.Write(data[written:])
		written += n

		if err != nil {
			return err
		}
	}

	return nil
}

// wait sleeps for d using a pooled timer.
func (t *transport) wait(d time.Duration) {
	if d <= 0 {
		return
	}

	timer := pool.GetTimer(d)
	<-timer.C
	pool.PutTimer(timer)
}

// close releases the channel. It is idempotent and safe to call when no
// channel was ever opened.
func (t *transport) close() error {
	if t == nil || t.closed || t.port == nil {
		return nil
	}

	t.closed = true
	if err := t.port.Close(); err != nil {
		return channelFault("close", err)
	}

	return nil
}

// isChannelFault reports whether a read error is unrecoverable for the
// channel, as opposed to a transient fault worth one more poll.
func isChannelFault(err error) bool {
	var portErr *serial.PortError

	return errors.As(err, &portErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe)
}

// channelFault normalizes a transport-level fault into [ErrChannel] so
// callers observe a single error kind on every platform.
func channelFault(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrChannel, op, err)
}
