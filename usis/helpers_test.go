package usis

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

// newTestConfig creates a SessionConfig with short timeouts suitable for tests.
func newTestConfig(t *testing.T, opts ...Option) *SessionConfig {
	t.Helper()

	defaults := []Option{
		WithReadTimeout(MinReadTimeout), // 10ms
		WithExchangeTimeout(50 * time.Millisecond),
		WithRetryInterval(10 * time.Millisecond),
	}

	cfg, err := NewSessionConfig(append(defaults, opts...)...)
	if err != nil {
		t.Fatalf("newTestConfig: %v", err)
	}

	return cfg
}

// readStep is one scripted outcome of a scriptPort.Read call.
type readStep struct {
	data []byte
	err  error
}

// scriptPort is a Port whose reads follow a fixed script and whose writes
// are recorded. Once the script is exhausted, Read behaves like a serial
// read timeout (0 bytes, nil error).
type scriptPort struct {
	reads    []readStep
	writes   bytes.Buffer
	writeErr error

	resetCount int
	resetErr   error
	closeErr   error
	closed     bool
}

func (p *scriptPort) Read(buf []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, nil
	}

	step := p.reads[0]
	p.reads = p.reads[1:]

	n := copy(buf, step.data)

	return n, step.err
}

func (p *scriptPort) Write(data []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}

	return p.writes.Write(data)
}

func (p *scriptPort) Close() error {
	p.closed = true

	return p.closeErr
}

func (p *scriptPort) SetReadTimeout(time.Duration) error { return nil }

func (p *scriptPort) ResetInputBuffer() error {
	p.resetCount++

	return p.resetErr
}

// simDevice is a Port that behaves like a USIS instrument: it decodes each
// written frame and queues the scripted reply for the next reads.
//
// Replies are looked up by frame body in the replies map and sent as
// correctly checksummed frames. Unknown commands answer a C-class status,
// like a real instrument.
type simDevice struct {
	replies map[string]string // command body -> reply body

	// commands records every decoded command body in arrival order.
	commands []string

	out    bytes.Buffer
	closed bool
}

func newSimDevice(replies map[string]string) *simDevice {
	return &simDevice{replies: replies}
}

func (d *simDevice) Read(buf []byte) (int, error) {
	if d.out.Len() == 0 {
		return 0, nil
	}

	return d.out.Read(buf)
}

func (d *simDevice) Write(data []byte) (int, error) {
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if !strings.HasSuffix(line, "\n") {
			continue
		}

		body := line
		if idx := strings.LastIndexByte(line, '*'); idx >= 0 {
			body = line[:idx]
		}
		d.commands = append(d.commands, body)

		reply, ok := d.replies[body]
		if !ok {
			reply = "C99;unknown command"
		}
		fmt.Fprintf(&d.out, "%s*%02X\n", reply, Checksum(reply))
	}

	return len(data), nil
}

func (d *simDevice) Close() error {
	d.closed = true

	return nil
}

func (d *simDevice) SetReadTimeout(time.Duration) error { return nil }

func (d *simDevice) ResetInputBuffer() error {
	d.out.Reset()

	return nil
}

// newTestSession creates a Session driving the given port with test timeouts.
func newTestSession(t *testing.T, port Port, opts ...Option) *Session {
	t.Helper()

	cfg := newTestConfig(t, opts...)
	sess := newSession(newTransport(port, "sim0", cfg), cfg)
	t.Cleanup(func() {
		_ = sess.Close()
	})

	return sess
}

// uvexReplies returns the scripted reply set of a small two-property
// instrument: a FLOAT property with a writable VALUE attribute and an ENUM
// property with a three-value domain.
func uvexReplies() map[string]string {
	return map[string]string{
		"INFO;PROPERTY_COUNT": "M00;OK;2",

		"INFO;PROPERTY_NAME;0":        "M00;OK;GRATING_ANGLE",
		"INFO;PROPERTY_TYPE;0":        "M00;OK;FLOAT",
		"INFO;PROPERTY_STATE;0":       "M00;OK;OK",
		"INFO;PROPERTY_ATTR_COUNT;0":  "M00;OK;2",
		"INFO;PROPERTY_ATTR_NAME;0;0": "M00;OK;VALUE",
		"INFO;PROPERTY_ATTR_MODE;0;0": "M00;OK;RW",
		"INFO;PROPERTY_ATTR_NAME;0;1": "M00;OK;UNIT",
		"INFO;PROPERTY_ATTR_MODE;0;1": "M00;OK;RO",

		"INFO;PROPERTY_NAME;1":        "M00;OK;LIGHT_SOURCE",
		"INFO;PROPERTY_TYPE;1":        "M00;OK;ENUM",
		"INFO;PROPERTY_STATE;1":       "M00;OK;OK",
		"INFO;PROPERTY_ATTR_COUNT;1":  "M00;OK;1",
		"INFO;PROPERTY_ATTR_NAME;1;0": "M00;OK;VALUE",
		"INFO;PROPERTY_ATTR_MODE;1;0": "M00;OK;RW",

		"INFO;PROPERTY_ATTR_ENUM_COUNT;1;0": "M00;OK;3",
		"INFO;PROPERTY_ATTR_ENUM_VALUE;1;0": "M00;OK;OFF",
		"INFO;PROPERTY_ATTR_ENUM_VALUE;1;1": "M00;OK;FLAT",
		"INFO;PROPERTY_ATTR_ENUM_VALUE;1;2": "M00;OK;CALIB",

		"GET;GRATING_ANGLE;VALUE": "M00;OK;12.50",
		"GET;GRATING_ANGLE;UNIT":  "M00;OK;deg",
		"GET;LIGHT_SOURCE;VALUE":  "M00;OK;OFF",
	}
}
