package usis

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/usis-protocol/go-usis/logger"
)

// Reply status classification.
const (
	// successStatus is the status token of a successful reply.
	successStatus = "M00"

	// deviceErrorPrefix marks device-reported, non-fatal error statuses.
	deviceErrorPrefix = "C"
)

// Session is one USIS conversation with one instrument over one serial
// channel.
//
// A session runs exactly one transaction at a time: every operation writes a
// frame and blocks until its reply arrives or the exchange timeout expires.
// A single owner must serialize access; the session does no internal locking
// beyond its closed flag.
//
// After a fatal error (see [IsFatal]), the session is unusable: the owner
// must call Close and stop issuing commands.
type Session struct {
	tr     *transport
	cfg    *SessionConfig
	logger logger.Logger

	closed atomic.Bool

	// model is the capability model of the last successful Introspect.
	model *Model

	metrics SessionMetrics
}

// Open opens the named serial device and creates a session on it.
//
// The channel is configured from opts (9600 baud 8N1 and the standard USIS
// timeouts when no options are given). A device that cannot be opened or
// configured fails with [ErrChannelOpen] wrapping the system error.
func Open(portName string, opts ...Option) (*Session, error) {
	cfg, err := NewSessionConfig(opts...)
	if err != nil {
		return nil, err
	}

	tr, err := openTransport(portName, cfg)
	if err != nil {
		return nil, err
	}

	cfg.logger.Info("usis: session opened", "port", portName, "baud", cfg.baudRate)

	return newSession(tr, cfg), nil
}

// newSession wraps an open transport. Used directly by tests.
func newSession(tr *transport, cfg *SessionConfig) *Session {
	s := &Session{
		tr:     tr,
		cfg:    cfg,
		logger: cfg.logger,
	}
	tr.onRetry = s.metrics.incRetryCount

	return s
}

// PortName returns the identifier of the serial channel this session owns.
func (s *Session) PortName() string {
	return s.tr.name
}

// Model returns the capability model built by the last successful
// [Session.Introspect], or nil if the session has not been introspected.
func (s *Session) Model() *Model {
	return s.model
}

// Metrics returns the session's metrics counters.
func (s *Session) Metrics() *SessionMetrics {
	return &s.metrics
}

// Exchange performs one full transaction: it encodes body into a frame,
// sends it, awaits exactly one reply, and classifies the result.
//
// On success (status "M00") it returns the reply's value and state fields.
// A C-class status fails with a [StatusError] wrapping [ErrDevice]; an
// unrecognized status fails with a [StatusError] wrapping [ErrProtocol].
// Both are non-fatal: the session stays open. Transport failures and
// framing desync are fatal; see [IsFatal].
func (s *Session) Exchange(body string) (value, state string, err error) {
	if s.closed.Load() {
		return "", "", ErrSessionClosed
	}

	s.metrics.incExchangeCount()

	line, err := s.tr.writeThenReadLine(EncodeFrame(body), s.cfg.exchangeTimeout)
	if err != nil {
		s.countFatal(err)
		s.logger.Error("usis: transaction failed, session must be closed",
			"port", s.tr.name, "command", body, "error", err)

		return "", "", err
	}

	reply, err := ParseReply(line)
	if err != nil {
		s.metrics.incChannelFaultCount()
		s.logger.Error("usis: framing desync, session must be closed",
			"port", s.tr.name, "command", body, "error", err)

		return "", "", err
	}

	status := reply.Status()
	switch {
	case status == successStatus:
		if len(reply.Fields) < 2 {
			s.metrics.incProtocolErrCount()

			return "", "", newStatusError(ErrProtocol, status, "success reply too short")
		}

		return reply.Value(), reply.State(), nil

	case strings.HasPrefix(status, deviceErrorPrefix):
		s.metrics.incDeviceErrCount()
		s.logger.Debug("usis: device reported error",
			"status", status, "message", reply.Field(1), "command", body)

		return "", "", newStatusError(ErrDevice, status, reply.Field(1))

	default:
		s.metrics.incProtocolErrCount()
		s.logger.Warn("usis: unrecognized reply status",
			"status", status, "body", reply.Body(), "command", body)

		return "", "", newStatusError(ErrProtocol, status, reply.Field(1))
	}
}

// Close releases the serial channel. It is idempotent and safe to call after
// a fatal error or when the channel is already gone.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("usis: session closed", "port", s.tr.name)

	return s.tr.close()
}

func (s *Session) countFatal(err error) {
	if errors.Is(err, ErrTimeout) {
		s.metrics.incTimeoutCount()

		return
	}

	s.metrics.incChannelFaultCount()
}
