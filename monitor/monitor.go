// Package monitor provides periodic live-value refresh for a USIS
// instrument.
//
// Every protocol call blocks for up to the session's exchange timeout, so
// interactive consumers must not poll from a thread that has to stay
// responsive. Monitor runs the polling loop on its own goroutine, keeps the
// latest reading per property, and hands updates to registered handlers; the
// owning application consumes readings without ever touching the session
// from its hot path.
package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/usis-protocol/go-usis/logger"
	"github.com/usis-protocol/go-usis/usis"
)

// DefaultInterval is the default polling cadence.
const DefaultInterval = time.Second

// valueAttribute is the attribute polled for every tracked property.
const valueAttribute = "VALUE"

// Getter reads one live (value, state) pair from an instrument.
// *usis.Session implements it.
type Getter interface {
	Get(property, attribute string) (value, state string, err error)
}

// Reading is one observed (value, state) pair for a property.
type Reading struct {
	Property string
	Value    string
	State    string
	At       time.Time
}

// ReadingHandler is invoked for every refreshed reading.
// Handlers run on the polling goroutine and must not block.
type ReadingHandler func(Reading)

// ErrorHandler is invoked when a poll fails. For fatal errors (see
// [usis.IsFatal]) the monitor stops itself afterwards; the owner is expected
// to close the session.
type ErrorHandler func(property string, err error)

// Monitor polls the VALUE attribute of tracked properties on a fixed
// cadence.
//
// One Monitor owns the session for the duration of its run: the session's
// one-transaction-at-a-time contract means no other goroutine may issue
// commands while the monitor is running.
type Monitor struct {
	getter   Getter
	interval time.Duration
	logger   logger.Logger

	// tracked is the ordered list of property names polled each sweep.
	tracked []string

	latest *xsync.MapOf[string, Reading]

	mu              sync.Mutex
	readingHandlers []ReadingHandler
	errorHandlers   []ErrorHandler

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option is a functional option for configuring a Monitor.
type Option interface {
	apply(*Monitor) error
}

type optionFunc func(*Monitor) error

func (f optionFunc) apply(m *Monitor) error { return f(m) }

// WithInterval sets the polling cadence.
func WithInterval(d time.Duration) Option {
	return optionFunc(func(m *Monitor) error {
		if d <= 0 {
			return errors.New("monitor: interval must be positive")
		}
		m.interval = d

		return nil
	})
}

// WithLogger sets the monitor's logger.
func WithLogger(l logger.Logger) Option {
	return optionFunc(func(m *Monitor) error {
		if l == nil {
			return errors.New("monitor: logger must not be nil")
		}
		m.logger = l

		return nil
	})
}

// WithProperties restricts polling to the named properties instead of every
// property in the model that exposes a VALUE attribute.
func WithProperties(names ...string) Option {
	return optionFunc(func(m *Monitor) error {
		m.tracked = append([]string(nil), names...)

		return nil
	})
}

// New creates a Monitor polling getter for the properties of model.
//
// By default every property exposing a VALUE attribute is tracked, in model
// order.
func New(getter Getter, model *usis.Model, opts ...Option) (*Monitor, error) {
	if getter == nil {
		return nil, errors.New("monitor: getter must not be nil")
	}
	if model == nil {
		return nil, errors.New("monitor: capability model must not be nil")
	}

	m := &Monitor{
		getter:   getter,
		interval: DefaultInterval,
		logger:   logger.GetLogger(),
		latest:   xsync.NewMapOf[string, Reading](),
	}

	for _, prop := range model.Properties() {
		if prop.Attribute(valueAttribute) != nil {
			m.tracked = append(m.tracked, prop.Name)
		}
	}

	for _, opt := range opts {
		if err := opt.apply(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// AddReadingHandler adds one or more handlers invoked for every refreshed
// reading. Handlers must be registered before Start.
func (m *Monitor) AddReadingHandler(handlers ...ReadingHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readingHandlers = append(m.readingHandlers, handlers...)
}

// AddErrorHandler adds one or more handlers invoked when a poll fails.
// Handlers must be registered before Start.
func (m *Monitor) AddErrorHandler(handlers ...ErrorHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorHandlers = append(m.errorHandlers, handlers...)
}

// Tracked returns the property names the monitor polls, in sweep order.
func (m *Monitor) Tracked() []string {
	return append([]string(nil), m.tracked...)
}

// Running reports whether the polling loop is active.
func (m *Monitor) Running() bool {
	return m.running.Load()
}

// Latest returns the most recent reading for a property, if any sweep has
// produced one.
func (m *Monitor) Latest(property string) (Reading, bool) {
	return m.latest.Load(property)
}

// Start launches the polling loop. It sweeps once immediately, then on
// every interval tick, until Stop is called, ctx is cancelled, or a fatal
// session error occurs.
func (m *Monitor) Start(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return errors.New("monitor: already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	m.logger.Info("monitor: started", "properties", len(m.tracked), "interval", m.interval)

	go m.loop(loopCtx)

	return nil
}

// Stop halts the polling loop and waits for it to finish the in-flight
// transaction. It is idempotent and safe to call on a never-started monitor.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}

	m.cancel()
	<-m.done
}

func (m *Monitor) loop(ctx context.Context) {
	defer func() {
		m.running.Store(false)
		close(m.done)
	}()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	if !m.sweep(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("monitor: stopped")

			return
		case <-ticker.C:
			if !m.sweep(ctx) {
				return
			}
		}
	}
}

// sweep polls every tracked property once. It reports false when the loop
// must stop: the context is done or the session failed fatally.
func (m *Monitor) sweep(ctx context.Context) bool {
	for _, property := range m.tracked {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		value, state, err := m.getter.Get(property, valueAttribute)
		if err != nil {
			m.notifyError(property, err)

			if usis.IsFatal(err) {
				m.logger.Error("monitor: fatal session error, stopping",
					"property", property, "error", err)

				return false
			}

			m.logger.Debug("monitor: poll failed", "property", property, "error", err)

			continue
		}

		reading := Reading{
			Property: property,
			Value:    value,
			State:    state,
			At:       time.Now(),
		}

		m.latest.Store(property, reading)
		m.notifyReading(reading)
	}

	return true
}

func (m *Monitor) notifyReading(r Reading) {
	m.mu.Lock()
	handlers := make([]ReadingHandler, len(m.readingHandlers))
	copy(handlers, m.readingHandlers)
	m.mu.Unlock()

	for _, handler := range handlers {
		handler(r)
	}
}

func (m *Monitor) notifyError(property string, err error) {
	m.mu.Lock()
	handlers := make([]ErrorHandler, len(m.errorHandlers))
	copy(handlers, m.errorHandlers)
	m.mu.Unlock()

	for _, handler := range handlers {
		handler(property, err)
	}
}
