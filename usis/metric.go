package usis

import (
	"sync/atomic"
)

// SessionMetrics contains atomic metrics for a USIS session.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type SessionMetrics struct {
	// ExchangeCount indicates the number of transactions started.
	ExchangeCount atomic.Uint64
	// RetryCount indicates the number of transient-fault backoffs taken by
	// the transport polling loop.
	RetryCount atomic.Uint64

	// TimeoutCount indicates the number of transactions that expired without
	// a reply.
	TimeoutCount atomic.Uint64
	// ChannelFaultCount indicates the number of transactions ended by an
	// unrecoverable channel fault or framing desync.
	ChannelFaultCount atomic.Uint64

	// DeviceErrCount indicates the number of C-class statuses the device
	// reported.
	DeviceErrCount atomic.Uint64
	// ProtocolErrCount indicates the number of unrecognized or structurally
	// unusable replies.
	ProtocolErrCount atomic.Uint64
}

func (m *SessionMetrics) incExchangeCount() {
	m.ExchangeCount.Add(1)
}

func (m *SessionMetrics) incRetryCount() {
	m.RetryCount.Add(1)
}

func (m *SessionMetrics) incTimeoutCount() {
	m.TimeoutCount.Add(1)
}

func (m *SessionMetrics) incChannelFaultCount() {
	m.ChannelFaultCount.Add(1)
}

func (m *SessionMetrics) incDeviceErrCount() {
	m.DeviceErrCount.Add(1)
}

func (m *SessionMetrics) incProtocolErrCount() {
	m.ProtocolErrCount.Add(1)
}
